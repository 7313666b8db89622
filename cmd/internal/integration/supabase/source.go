// Package supabase reads schedules and bookings from a hosted Supabase
// project through its PostgREST API. It only serves the availability
// resolver; writes always go through the gorm repositories.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"medislot/cmd/internal/domain/entity"

	supa "github.com/supabase-community/supabase-go"
)

const (
	scheduleTable    = "schedule_entries"
	appointmentTable = "appointments"
)

type Source struct {
	client *supa.Client
}

func NewSource(url, serviceKey string) (*Source, error) {
	client, err := supa.NewClient(url, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return &Source{client: client}, nil
}

type scheduleRow struct {
	ID           string            `json:"id"`
	DoctorID     string            `json:"doctor_id"`
	LocationKind string            `json:"location_kind"`
	CenterID     *string           `json:"center_id"`
	DayOfWeek    int               `json:"day_of_week"`
	IsAvailable  bool              `json:"is_available"`
	TimeSlots    []entity.TimeSlot `json:"time_slots"`
}

type appointmentRow struct {
	ID           string  `json:"id"`
	DoctorID     string  `json:"doctor_id"`
	PatientSub   string  `json:"patient_sub"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	Status       string  `json:"status"`
	LocationKind string  `json:"location_kind"`
	CenterID     *string `json:"center_id"`
}

// The PostgREST client has no context support; ctx is only checked before
// the request goes out.
func (s *Source) FindAvailableByDoctorAndDay(ctx context.Context, doctorID string, day int) ([]*entity.ScheduleEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, _, err := s.client.From(scheduleTable).
		Select("*", "", false).
		Eq("doctor_id", doctorID).
		Eq("day_of_week", strconv.Itoa(day)).
		Eq("is_available", "true").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("query %s for doctor %s: %w", scheduleTable, doctorID, err)
	}
	return decodeSchedules(data)
}

func (s *Source) FindOccupying(ctx context.Context, doctorID, date, excludeID string) ([]*entity.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	statuses := make([]string, len(entity.OccupyingStatuses))
	for i, st := range entity.OccupyingStatuses {
		statuses[i] = string(st)
	}

	query := s.client.From(appointmentTable).
		Select("*", "", false).
		Eq("doctor_id", doctorID).
		Eq("date", date).
		In("status", statuses)
	if excludeID != "" {
		query = query.Neq("id", excludeID)
	}

	data, _, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("query %s for doctor %s on %s: %w", appointmentTable, doctorID, date, err)
	}
	return decodeAppointments(data)
}

func decodeSchedules(data []byte) ([]*entity.ScheduleEntry, error) {
	var rows []scheduleRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode %s rows: %w", scheduleTable, err)
	}

	entries := make([]*entity.ScheduleEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, &entity.ScheduleEntry{
			ID:           r.ID,
			DoctorID:     r.DoctorID,
			LocationKind: entity.LocationKind(r.LocationKind),
			CenterID:     r.CenterID,
			DayOfWeek:    r.DayOfWeek,
			IsAvailable:  r.IsAvailable,
			TimeSlots:    r.TimeSlots,
		})
	}
	return entries, nil
}

func decodeAppointments(data []byte) ([]*entity.Appointment, error) {
	var rows []appointmentRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode %s rows: %w", appointmentTable, err)
	}

	appts := make([]*entity.Appointment, 0, len(rows))
	for _, r := range rows {
		appts = append(appts, &entity.Appointment{
			ID:           r.ID,
			DoctorID:     r.DoctorID,
			PatientSub:   r.PatientSub,
			Date:         r.Date,
			Time:         r.Time,
			Status:       entity.AppointmentStatus(r.Status),
			LocationKind: entity.LocationKind(r.LocationKind),
			CenterID:     r.CenterID,
		})
	}
	return appts, nil
}
