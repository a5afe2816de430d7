package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/itsyosefali/saas-package-management/internal/shared/constants"
)

// SiteModel represents the database persistence model for provisioned sites
type SiteModel struct {
	ID           uint   `gorm:"primarykey"`
	RequestID    uint   `gorm:"not null;uniqueIndex:idx_sites_request"`
	InstanceID   uint   `gorm:"not null;index:idx_sites_instance"`
	SiteName     string `gorm:"not null;uniqueIndex:idx_sites_name;size:150"`
	CustomDomain string `gorm:"size:255;index:idx_sites_domain"`
	Status       string `gorm:"not null;default:'Creating Site';size:20;index:idx_sites_status"`
	CreationDate time.Time
	ApprovalDate time.Time
	ExpiryDate   time.Time `gorm:"index:idx_sites_expiry"`
	ProvisionLog string    `gorm:"type:text"`
	AdminNotes   string    `gorm:"type:text"`
	Version      int       `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (SiteModel) TableName() string {
	return constants.TableSites
}

// BeforeCreate hook for GORM
func (s *SiteModel) BeforeCreate(tx *gorm.DB) error {
	if s.Status == "" {
		s.Status = "Creating Site"
	}
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}

// BeforeUpdate implements optimistic locking
func (s *SiteModel) BeforeUpdate(tx *gorm.DB) error {
	tx.Statement.SetColumn("version", s.Version+1)
	return nil
}
