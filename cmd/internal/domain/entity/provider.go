package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// CanBecome reports whether an admin may move a record from s to next.
// Only pending records can be decided, and only once.
func (s ApprovalStatus) CanBecome(next ApprovalStatus) bool {
	return s == ApprovalPending && (next == ApprovalApproved || next == ApprovalRejected)
}

type Doctor struct {
	ID             string         `gorm:"primaryKey;size:36"`
	OwnerSub       string         `gorm:"not null;uniqueIndex"`
	Name           string         `gorm:"not null"`
	Specialty      string         `gorm:"not null"`
	ApprovalStatus ApprovalStatus `gorm:"not null;size:16"`
	CreatedAt      int64          `gorm:"not null;autoCreateTime:false"`
	UpdatedAt      int64          `gorm:"not null;autoUpdateTime:false"`
}

func (d *Doctor) BeforeCreate(_ *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

type Center struct {
	ID             string         `gorm:"primaryKey;size:36"`
	OwnerSub       string         `gorm:"not null;index"`
	Name           string         `gorm:"not null"`
	Address        string         `gorm:"not null"`
	ApprovalStatus ApprovalStatus `gorm:"not null;size:16"`
	CreatedAt      int64          `gorm:"not null;autoCreateTime:false"`
	UpdatedAt      int64          `gorm:"not null;autoUpdateTime:false"`
}

func (c *Center) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
