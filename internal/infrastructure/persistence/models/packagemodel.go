package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/itsyosefali/saas-package-management/internal/shared/constants"
)

// PackageModel represents the database persistence model for subscription packages
type PackageModel struct {
	ID            uint    `gorm:"primarykey"`
	Name          string  `gorm:"uniqueIndex;not null;size:100"`
	Price         float64 `gorm:"not null;default:0"`
	UsersLimit    int     `gorm:"not null;default:5"`
	InvoicesLimit int     `gorm:"not null;default:10"`
	ExpensesLimit int     `gorm:"not null;default:10"`
	Features      string `gorm:"type:text"` // markdown feature list
	IsActive      bool   `gorm:"not null;default:true;index:idx_packages_active"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (PackageModel) TableName() string {
	return constants.TablePackages
}
