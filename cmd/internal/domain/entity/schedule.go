package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeSlot is one bookable time point inside a weekly schedule entry.
type TimeSlot struct {
	Time            string `json:"time"`
	DurationMinutes int    `json:"durationMinutes"`
}

type ScheduleEntry struct {
	ID           string       `gorm:"primaryKey;size:36"`
	DoctorID     string       `gorm:"not null;size:36;index:idx_schedule_doctor_day,priority:1"` // References: doctors(id)
	LocationKind LocationKind `gorm:"not null;size:16"`
	CenterID     *string      `gorm:"size:36"` // References: centers(id), NULL for home visits
	DayOfWeek    int          `gorm:"not null;index:idx_schedule_doctor_day,priority:2"`
	IsAvailable  bool         `gorm:"not null"`
	TimeSlots    []TimeSlot   `gorm:"serializer:json;not null"`
	CreatedAt    int64        `gorm:"not null;autoCreateTime:false"`
	UpdatedAt    int64        `gorm:"not null;autoUpdateTime:false"`
}

func (s *ScheduleEntry) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (s *ScheduleEntry) Location() Location {
	return locationFromColumns(s.LocationKind, s.CenterID)
}

func (s *ScheduleEntry) SetLocation(l Location) {
	s.LocationKind, s.CenterID = l.columns()
}
