package repository

import (
	"context"
	"errors"
	"fmt"

	"medislot/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

// ErrSlotTaken is returned by Save when another occupying appointment already
// holds the same doctor, date and time.
var ErrSlotTaken = errors.New("appointment slot already taken")

type DefaultAppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *DefaultAppointmentRepository {
	return &DefaultAppointmentRepository{db: db}
}

func (a *DefaultAppointmentRepository) FindByID(ctx context.Context, id string) (*entity.Appointment, error) {
	var appt entity.Appointment
	err := a.db.WithContext(ctx).First(&appt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

// FindOccupying returns the appointments holding the doctor's time on date,
// at any location. excludeID, when set, leaves one appointment out so it can
// be moved without conflicting with itself.
func (a *DefaultAppointmentRepository) FindOccupying(ctx context.Context, doctorID, date, excludeID string) ([]*entity.Appointment, error) {
	var appts []*entity.Appointment

	query := a.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Where("date = ?", date).
		Where("status IN ?", entity.OccupyingStatuses)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	if err := query.Order("time asc").Find(&appts).Error; err != nil {
		return nil, fmt.Errorf("find occupying appointments: %w", err)
	}
	return appts, nil
}

func (a *DefaultAppointmentRepository) FindAll(ctx context.Context) ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.db.WithContext(ctx).Order("date asc, time asc").Find(&appts).Error
	return appts, err
}

func (a *DefaultAppointmentRepository) FindByPatient(ctx context.Context, sub string) ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.db.WithContext(ctx).Where("patient_sub = ?", sub).Order("date asc, time asc").Find(&appts).Error
	return appts, err
}

func (a *DefaultAppointmentRepository) FindByDoctor(ctx context.Context, doctorID string) ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.db.WithContext(ctx).Where("doctor_id = ?", doctorID).Order("date asc, time asc").Find(&appts).Error
	return appts, err
}

func (a *DefaultAppointmentRepository) Save(ctx context.Context, appointment *entity.Appointment) error {
	err := a.db.WithContext(ctx).Save(appointment).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlotTaken
	}
	return err
}
