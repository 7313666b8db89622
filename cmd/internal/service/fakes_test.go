package service

import (
	"context"
	"sync"

	"medislot/cmd/internal/domain/database/repository"
	"medislot/cmd/internal/domain/entity"
	"medislot/cmd/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	doctorID = "7c1d3f0e-5b7a-4a55-9d61-2c0f7d1f9a10"
	centerA  = "c0000000-0000-0000-0000-00000000000a"
	centerB  = "c0000000-0000-0000-0000-00000000000b"
)

func newValidate() *validator.Validate {
	v := validator.New()
	validators.Register(v)
	return v
}

// -- Schedules --

type fakeScheduleRepo struct {
	mu      sync.Mutex
	entries []*entity.ScheduleEntry
	err     error
}

func (f *fakeScheduleRepo) FindAvailableByDoctorAndDay(_ context.Context, doctorID string, day int) ([]*entity.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.ScheduleEntry
	for _, e := range f.entries {
		if e.DoctorID == doctorID && e.DayOfWeek == day && e.IsAvailable {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) FindByDoctor(_ context.Context, doctorID string) ([]*entity.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.ScheduleEntry
	for _, e := range f.entries {
		if e.DoctorID == doctorID {
			out = append(out, e)
		}
	}
	return out, f.err
}

func (f *fakeScheduleRepo) FindOne(_ context.Context, doctorID string, loc entity.Location, day int) (*entity.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.DoctorID == doctorID && e.DayOfWeek == day && e.Location() == loc {
			return e, nil
		}
	}
	return nil, f.err
}

func (f *fakeScheduleRepo) Save(_ context.Context, entry *entity.ScheduleEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
		f.entries = append(f.entries, entry)
	}
	return nil
}

// -- Appointments --

type fakeAppointmentRepo struct {
	mu    sync.Mutex
	appts map[string]*entity.Appointment
	err   error
}

func newFakeAppointmentRepo(appts ...*entity.Appointment) *fakeAppointmentRepo {
	f := &fakeAppointmentRepo{appts: make(map[string]*entity.Appointment)}
	for _, a := range appts {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		f.appts[a.ID] = a
	}
	return f
}

func (f *fakeAppointmentRepo) FindOccupying(_ context.Context, doctorID, date, excludeID string) ([]*entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.Appointment
	for _, a := range f.appts {
		if a.DoctorID == doctorID && a.Date == date && a.Status.Occupies() && a.ID != excludeID {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) FindByID(_ context.Context, id string) (*entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.appts[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAppointmentRepo) filter(keep func(*entity.Appointment) bool) []*entity.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Appointment
	for _, a := range f.appts {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func (f *fakeAppointmentRepo) FindAll(_ context.Context) ([]*entity.Appointment, error) {
	return f.filter(func(*entity.Appointment) bool { return true }), f.err
}

func (f *fakeAppointmentRepo) FindByPatient(_ context.Context, sub string) ([]*entity.Appointment, error) {
	return f.filter(func(a *entity.Appointment) bool { return a.PatientSub == sub }), f.err
}

func (f *fakeAppointmentRepo) FindByDoctor(_ context.Context, doctorID string) ([]*entity.Appointment, error) {
	return f.filter(func(a *entity.Appointment) bool { return a.DoctorID == doctorID }), f.err
}

// Save enforces the same uniqueness rule as the database index.
func (f *fakeAppointmentRepo) Save(_ context.Context, appt *entity.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	if appt.Status.Occupies() {
		for _, other := range f.appts {
			if other.ID != appt.ID && other.DoctorID == appt.DoctorID && other.Date == appt.Date &&
				other.Time == appt.Time && other.Status.Occupies() {
				return repository.ErrSlotTaken
			}
		}
	}
	copied := *appt
	f.appts[appt.ID] = &copied
	return nil
}

// -- Providers --

type fakeDoctorRepo struct {
	doctors map[string]*entity.Doctor
	err     error
}

func newFakeDoctorRepo(doctors ...*entity.Doctor) *fakeDoctorRepo {
	f := &fakeDoctorRepo{doctors: make(map[string]*entity.Doctor)}
	for _, d := range doctors {
		f.doctors[d.ID] = d
	}
	return f
}

func (f *fakeDoctorRepo) FindByID(_ context.Context, id string) (*entity.Doctor, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.doctors[id], nil
}

func (f *fakeDoctorRepo) FindByOwner(_ context.Context, sub string) (*entity.Doctor, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, d := range f.doctors {
		if d.OwnerSub == sub {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeDoctorRepo) FindByStatus(_ context.Context, status entity.ApprovalStatus) ([]*entity.Doctor, error) {
	var out []*entity.Doctor
	for _, d := range f.doctors {
		if d.ApprovalStatus == status {
			out = append(out, d)
		}
	}
	return out, f.err
}

func (f *fakeDoctorRepo) Save(_ context.Context, doctor *entity.Doctor) error {
	if f.err != nil {
		return f.err
	}
	if doctor.ID == "" {
		doctor.ID = uuid.NewString()
	}
	f.doctors[doctor.ID] = doctor
	return nil
}

type fakeCenterRepo struct {
	centers map[string]*entity.Center
	err     error
}

func newFakeCenterRepo(centers ...*entity.Center) *fakeCenterRepo {
	f := &fakeCenterRepo{centers: make(map[string]*entity.Center)}
	for _, c := range centers {
		f.centers[c.ID] = c
	}
	return f
}

func (f *fakeCenterRepo) FindByID(_ context.Context, id string) (*entity.Center, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.centers[id], nil
}

func (f *fakeCenterRepo) FindByStatus(_ context.Context, status entity.ApprovalStatus) ([]*entity.Center, error) {
	var out []*entity.Center
	for _, c := range f.centers {
		if c.ApprovalStatus == status {
			out = append(out, c)
		}
	}
	return out, f.err
}

func (f *fakeCenterRepo) Save(_ context.Context, center *entity.Center) error {
	if f.err != nil {
		return f.err
	}
	if center.ID == "" {
		center.ID = uuid.NewString()
	}
	f.centers[center.ID] = center
	return nil
}

// -- Builders --

func scheduleEntry(loc entity.Location, day int, times ...string) *entity.ScheduleEntry {
	e := &entity.ScheduleEntry{ID: uuid.NewString(), DoctorID: doctorID, DayOfWeek: day, IsAvailable: true}
	e.SetLocation(loc)
	for _, t := range times {
		e.TimeSlots = append(e.TimeSlots, entity.TimeSlot{Time: t, DurationMinutes: 30})
	}
	return e
}

func appointmentAt(date, at string, status entity.AppointmentStatus, loc entity.Location) *entity.Appointment {
	a := &entity.Appointment{ID: uuid.NewString(), DoctorID: doctorID, PatientSub: "patient-1", Date: date, Time: at, Status: status}
	a.SetLocation(loc)
	return a
}
