package repository

import (
	"context"
	"errors"
	"fmt"

	"medislot/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *DefaultScheduleRepository {
	return &DefaultScheduleRepository{db: db}
}

func (s *DefaultScheduleRepository) FindAvailableByDoctorAndDay(ctx context.Context, doctorID string, day int) ([]*entity.ScheduleEntry, error) {
	var entries []*entity.ScheduleEntry
	err := s.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Where("day_of_week = ?", day).
		Where("is_available = ?", true).
		Order("created_at asc").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("find schedule entries: %w", err)
	}
	return entries, nil
}

func (s *DefaultScheduleRepository) FindByDoctor(ctx context.Context, doctorID string) ([]*entity.ScheduleEntry, error) {
	var entries []*entity.ScheduleEntry
	err := s.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("day_of_week asc, created_at asc").
		Find(&entries).Error
	return entries, err
}

// FindOne returns the entry for one doctor, location and weekday, or nil.
func (s *DefaultScheduleRepository) FindOne(ctx context.Context, doctorID string, loc entity.Location, day int) (*entity.ScheduleEntry, error) {
	query := s.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Where("day_of_week = ?", day).
		Where("location_kind = ?", loc.Kind)
	if !loc.IsHomeVisit() {
		query = query.Where("center_id = ?", loc.CenterID)
	}

	var entry entity.ScheduleEntry
	err := query.Order("created_at asc").First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *DefaultScheduleRepository) Save(ctx context.Context, entry *entity.ScheduleEntry) error {
	return s.db.WithContext(ctx).Save(entry).Error
}
