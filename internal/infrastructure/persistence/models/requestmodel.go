package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/itsyosefali/saas-package-management/internal/shared/constants"
)

// RequestModel represents the database persistence model for customer requests
type RequestModel struct {
	ID           uint   `gorm:"primarykey"`
	CustomerName string `gorm:"not null;size:150;index:idx_requests_customer"`
	Email        string `gorm:"not null;size:255"`
	PackageID    uint   `gorm:"not null;index:idx_requests_package"`
	PackageName  string `gorm:"not null;size:100"`
	CustomDomain string `gorm:"size:255"`
	RequestDate  time.Time
	Notes        string `gorm:"type:text"`
	AdminNotes   string `gorm:"type:text"`
	Status       string `gorm:"not null;default:Pending;size:20;index:idx_requests_status"`
	Version      int    `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (RequestModel) TableName() string {
	return constants.TableRequests
}

// BeforeCreate hook for GORM
func (r *RequestModel) BeforeCreate(tx *gorm.DB) error {
	if r.Status == "" {
		r.Status = "Pending"
	}
	if r.Version == 0 {
		r.Version = 1
	}
	return nil
}

// BeforeUpdate implements optimistic locking
func (r *RequestModel) BeforeUpdate(tx *gorm.DB) error {
	tx.Statement.SetColumn("version", r.Version+1)
	return nil
}
