package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/itsyosefali/saas-package-management/internal/shared/constants"
)

// ActionModel represents the database persistence model for instance actions
type ActionModel struct {
	ID            string `gorm:"primarykey;size:32"`
	InstanceID    uint   `gorm:"not null;index:idx_actions_instance"`
	ActionType    string `gorm:"not null;size:30;index:idx_actions_type"`
	SiteVerb      string `gorm:"size:20"` // only set for Site Management actions
	Status        string `gorm:"not null;default:Pending;size:20;index:idx_actions_status"`
	StartTime     *time.Time
	EndTime       *time.Time
	ExecutionLog  string         `gorm:"type:text"`
	ExecutionInfo datatypes.JSON // structured report for monitoring runs
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Sites []ActionSiteModel `gorm:"foreignKey:ActionID;references:ID"`
}

// TableName specifies the table name for GORM
func (ActionModel) TableName() string {
	return constants.TableInstanceActions
}

// ActionSiteModel is a per-site row under an instance action
type ActionSiteModel struct {
	ID       uint   `gorm:"primarykey"`
	ActionID string `gorm:"not null;size:32;index:idx_action_sites_action"`
	SiteName string `gorm:"not null;size:150"`
	Action   string `gorm:"size:30"`
	Status   string `gorm:"not null;size:20"`
	Detail   string `gorm:"type:text"`
}

// TableName specifies the table name for GORM
func (ActionSiteModel) TableName() string {
	return constants.TableActionSites
}
