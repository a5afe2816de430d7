package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/itsyosefali/saas-package-management/internal/shared/constants"
)

// InstanceModel represents the database persistence model for fleet instances.
// Passwords are stored encrypted; decryption happens just in time in the
// application layer and plaintext never touches this table.
type InstanceModel struct {
	ID                  uint   `gorm:"primarykey"`
	Name                string `gorm:"uniqueIndex;not null;size:100"`
	Host                string `gorm:"not null;size:255;index:idx_instances_host"`
	Port                int    `gorm:"not null;default:22"`
	Username            string `gorm:"not null;size:100"`
	EncryptedPassword   string `gorm:"not null;size:512"`
	EncryptedDBPassword string `gorm:"size:512"`
	RAMGB               int    `gorm:"not null;default:0"`
	CPUCores            int    `gorm:"not null;default:0"`
	StorageGB           int    `gorm:"not null;default:0"`
	BenchPath           string `gorm:"not null;size:255"`
	PackageID           uint   `gorm:"not null;index:idx_instances_package"`
	GroupID             *uint  `gorm:"index:idx_instances_group"`
	DeploymentStatus    string `gorm:"not null;default:Deployed;size:20;index:idx_instances_status"`
	IsActive            bool   `gorm:"not null;default:true;index:idx_instances_active"`
	ServerURL           string `gorm:"size:255"`
	LastBackupAt        *time.Time
	Version             int `gorm:"not null;default:1"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (InstanceModel) TableName() string {
	return constants.TableInstances
}

// BeforeCreate hook for GORM
func (i *InstanceModel) BeforeCreate(tx *gorm.DB) error {
	if i.DeploymentStatus == "" {
		i.DeploymentStatus = "Deployed"
	}
	if i.Version == 0 {
		i.Version = 1
	}
	return nil
}

// BeforeUpdate implements optimistic locking
func (i *InstanceModel) BeforeUpdate(tx *gorm.DB) error {
	tx.Statement.SetColumn("version", i.Version+1)
	return nil
}

// InstanceGroupModel represents the database persistence model for instance groups
type InstanceGroupModel struct {
	ID          uint   `gorm:"primarykey"`
	Name        string `gorm:"uniqueIndex;not null;size:100"`
	PackageID   uint   `gorm:"not null;index:idx_instance_groups_package"`
	Description string `gorm:"size:500"`
	IsActive    bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (InstanceGroupModel) TableName() string {
	return constants.TableInstanceGroups
}
