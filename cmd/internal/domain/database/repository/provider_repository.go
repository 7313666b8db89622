package repository

import (
	"context"
	"errors"

	"medislot/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultDoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) *DefaultDoctorRepository {
	return &DefaultDoctorRepository{db: db}
}

func (d *DefaultDoctorRepository) FindByID(ctx context.Context, id string) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := d.db.WithContext(ctx).First(&doctor, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (d *DefaultDoctorRepository) FindByOwner(ctx context.Context, sub string) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := d.db.WithContext(ctx).First(&doctor, "owner_sub = ?", sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (d *DefaultDoctorRepository) FindByStatus(ctx context.Context, status entity.ApprovalStatus) ([]*entity.Doctor, error) {
	var doctors []*entity.Doctor
	err := d.db.WithContext(ctx).Where("approval_status = ?", status).Order("name asc").Find(&doctors).Error
	return doctors, err
}

func (d *DefaultDoctorRepository) Save(ctx context.Context, doctor *entity.Doctor) error {
	return d.db.WithContext(ctx).Save(doctor).Error
}

type DefaultCenterRepository struct {
	db *gorm.DB
}

func NewCenterRepository(db *gorm.DB) *DefaultCenterRepository {
	return &DefaultCenterRepository{db: db}
}

func (c *DefaultCenterRepository) FindByID(ctx context.Context, id string) (*entity.Center, error) {
	var center entity.Center
	err := c.db.WithContext(ctx).First(&center, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &center, nil
}

func (c *DefaultCenterRepository) FindByStatus(ctx context.Context, status entity.ApprovalStatus) ([]*entity.Center, error) {
	var centers []*entity.Center
	err := c.db.WithContext(ctx).Where("approval_status = ?", status).Order("name asc").Find(&centers).Error
	return centers, err
}

func (c *DefaultCenterRepository) Save(ctx context.Context, center *entity.Center) error {
	return c.db.WithContext(ctx).Save(center).Error
}
