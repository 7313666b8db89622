package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// OccupyingStatuses hold the doctor's time. Every other status frees it.
var OccupyingStatuses = []AppointmentStatus{StatusPending, StatusConfirmed, StatusScheduled}

func (s AppointmentStatus) Occupies() bool {
	for _, o := range OccupyingStatuses {
		if s == o {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID           string            `gorm:"primaryKey;size:36"`
	DoctorID     string            `gorm:"not null;size:36;index:idx_appointments_doctor_date,priority:1"` // References: doctors(id)
	PatientSub   string            `gorm:"not null;index"`                                                 // Identity subject of the patient
	Date         string            `gorm:"not null;size:10;index:idx_appointments_doctor_date,priority:2"`
	Time         string            `gorm:"not null;size:8"`
	Status       AppointmentStatus `gorm:"not null;size:16"`
	LocationKind LocationKind      `gorm:"not null;size:16"`
	CenterID     *string           `gorm:"size:36"` // References: centers(id)
	CreatedAt    int64             `gorm:"not null;autoCreateTime:false"`
	UpdatedAt    int64             `gorm:"not null;autoUpdateTime:false"`
}

func (a *Appointment) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (a *Appointment) Location() Location {
	return locationFromColumns(a.LocationKind, a.CenterID)
}

func (a *Appointment) SetLocation(l Location) {
	a.LocationKind, a.CenterID = l.columns()
}
