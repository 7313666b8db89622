// Package slots turns a doctor's weekly schedule and the day's bookings into
// the list of times a patient can pick from.
package slots

import (
	"errors"
	"fmt"
	"sort"

	"medislot/cmd/internal/domain/entity"
	"medislot/cmd/internal/utils"
)

type Mode string

const (
	ModeClinic    Mode = "clinic"
	ModeHomeVisit Mode = "home_visit"
)

var ErrUnknownMode = errors.New("unknown service mode")

// ParseMode defaults to clinic when raw is empty.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case "", ModeClinic:
		return ModeClinic, nil
	case ModeHomeVisit:
		return ModeHomeVisit, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, raw)
}

type Query struct {
	Mode     Mode
	CenterID string
}

func (q Query) wants(loc entity.Location) bool {
	switch q.Mode {
	case ModeHomeVisit:
		return loc.IsHomeVisit()
	case ModeClinic:
		if loc.IsHomeVisit() {
			return false
		}
		return q.CenterID == "" || loc.CenterID == q.CenterID
	}
	return false
}

// exact reports whether loc is precisely the location the caller asked for.
func (q Query) exact(loc entity.Location) bool {
	if q.Mode == ModeHomeVisit {
		return loc.IsHomeVisit()
	}
	return q.CenterID != "" && loc == entity.CenterLocation(q.CenterID)
}

// Candidate is a time offered by the schedule, before bookings are applied.
type Candidate struct {
	Time            string
	DurationMinutes int
	Location        entity.Location
}

type ResolvedSlot struct {
	Time            string `json:"time"`
	DurationMinutes int    `json:"durationMinutes"`
	IsAvailable     bool   `json:"isAvailable"`
	IsBooked        bool   `json:"isBooked"`
}

const (
	DefaultDayStart    = 9 * 60
	DefaultDayEnd      = 17 * 60
	DefaultSlotMinutes = 30
)

// FilterEntries keeps the available entries that serve the requested mode.
// Clinic requests without a center accept every center the doctor works at.
func FilterEntries(entries []*entity.ScheduleEntry, q Query) []*entity.ScheduleEntry {
	var kept []*entity.ScheduleEntry
	for _, e := range entries {
		if e == nil || !e.IsAvailable {
			continue
		}
		if q.wants(e.Location()) {
			kept = append(kept, e)
		}
	}
	return kept
}

// DefaultCandidates covers 09:00 to 17:00 in 30 minute steps, the last slot
// starting at 16:30.
func DefaultCandidates() []Candidate {
	var out []Candidate
	for m := DefaultDayStart; m+DefaultSlotMinutes <= DefaultDayEnd; m += DefaultSlotMinutes {
		out = append(out, Candidate{
			Time:            fmt.Sprintf("%02d:%02d", m/60, m%60),
			DurationMinutes: DefaultSlotMinutes,
		})
	}
	return out
}

// Candidates flattens the matching entries into one time-ordered list with a
// single candidate per time. When a clinic request matches no entry at all
// the default business hours are offered instead and fallback is true.
//
// Several candidates for the same time are settled in this order: the one at
// the exact location requested, then the longer duration, then the first seen.
func Candidates(entries []*entity.ScheduleEntry, q Query) (cands []Candidate, fallback bool) {
	matched := FilterEntries(entries, q)
	if len(matched) == 0 {
		if q.Mode != ModeClinic {
			return nil, false
		}
		return DefaultCandidates(), true
	}

	byTime := make(map[string]Candidate)
	for _, e := range matched {
		loc := e.Location()
		for _, ts := range e.TimeSlots {
			t, err := utils.NormalizeTime(ts.Time)
			if err != nil {
				continue
			}
			c := Candidate{Time: t, DurationMinutes: ts.DurationMinutes, Location: loc}
			if c.DurationMinutes <= 0 {
				c.DurationMinutes = DefaultSlotMinutes
			}
			prev, seen := byTime[t]
			if !seen || q.prefers(c, prev) {
				byTime[t] = c
			}
		}
	}

	cands = make([]Candidate, 0, len(byTime))
	for _, c := range byTime {
		cands = append(cands, c)
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].Time < cands[j].Time })
	return cands, false
}

func (q Query) prefers(next, current Candidate) bool {
	ne, ce := q.exact(next.Location), q.exact(current.Location)
	if ne != ce {
		return ne
	}
	return next.DurationMinutes > current.DurationMinutes
}

// BookedTimes collects the HH:MM times held by occupying appointments.
// The set is keyed by time alone: a doctor booked anywhere is busy everywhere.
func BookedTimes(appts []*entity.Appointment) map[string]struct{} {
	booked := make(map[string]struct{}, len(appts))
	for _, a := range appts {
		if a == nil || !a.Status.Occupies() {
			continue
		}
		t, err := utils.NormalizeTime(a.Time)
		if err != nil {
			continue
		}
		booked[t] = struct{}{}
	}
	return booked
}

// Merge flags every candidate against the booked set. Booked slots stay in
// the result so callers can render them disabled.
func Merge(cands []Candidate, booked map[string]struct{}) []ResolvedSlot {
	out := make([]ResolvedSlot, 0, len(cands))
	for _, c := range cands {
		_, isBooked := booked[c.Time]
		out = append(out, ResolvedSlot{
			Time:            c.Time,
			DurationMinutes: c.DurationMinutes,
			IsBooked:        isBooked,
			IsAvailable:     !isBooked,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// Resolve runs the full pipeline over already fetched rows.
func Resolve(entries []*entity.ScheduleEntry, appts []*entity.Appointment, q Query) ([]ResolvedSlot, bool) {
	cands, fallback := Candidates(entries, q)
	return Merge(cands, BookedTimes(appts)), fallback
}

// Offers reports whether the resolved list contains t as a free slot.
func Offers(resolved []ResolvedSlot, t string) bool {
	i := sort.Search(len(resolved), func(i int) bool { return resolved[i].Time >= t })
	return i < len(resolved) && resolved[i].Time == t && resolved[i].IsAvailable
}
