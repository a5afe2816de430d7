package action

import (
	"fmt"
	"time"

	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
)

// Type names an operation performed against a fleet instance.
type Type string

const (
	TypeStartInstance   Type = "Start Instance"
	TypeStopInstance    Type = "Stop Instance"
	TypeRestartInstance Type = "Restart Instance"
	TypeBackupInstance  Type = "Backup Instance"
	TypeUpdateInstance  Type = "Update Instance"
	TypeMonitorInstance Type = "Monitor Instance"
	TypeMaintenanceMode Type = "Maintenance Mode"
	TypeSiteManagement  Type = "Site Management"
)

var validTypes = map[Type]bool{
	TypeStartInstance:   true,
	TypeStopInstance:    true,
	TypeRestartInstance: true,
	TypeBackupInstance:  true,
	TypeUpdateInstance:  true,
	TypeMonitorInstance: true,
	TypeMaintenanceMode: true,
	TypeSiteManagement:  true,
}

func NewType(value string) (Type, error) {
	t := Type(value)
	if !validTypes[t] {
		return "", errors.NewValidationError(fmt.Sprintf("invalid action type: %s", value))
	}
	return t, nil
}

// SiteVerb is the per-site operation a Site Management action performs
// on every site hosted by the instance.
type SiteVerb string

const (
	SiteVerbStart   SiteVerb = "start"
	SiteVerbStop    SiteVerb = "stop"
	SiteVerbRestart SiteVerb = "restart"
	SiteVerbBackup  SiteVerb = "backup"
	SiteVerbUpdate  SiteVerb = "update"
)

var validSiteVerbs = map[SiteVerb]bool{
	SiteVerbStart:   true,
	SiteVerbStop:    true,
	SiteVerbRestart: true,
	SiteVerbBackup:  true,
	SiteVerbUpdate:  true,
}

func NewSiteVerb(value string) (SiteVerb, error) {
	v := SiteVerb(value)
	if !validSiteVerbs[v] {
		return "", errors.NewValidationError(fmt.Sprintf("invalid site action: %s", value))
	}
	return v, nil
}

// Status tracks an action's execution.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusFailed     Status = "Failed"
	StatusCancelled  Status = "Cancelled"
)

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// SiteAction is a per-site step inside a fleet action: the operation
// performed against one site hosted by the instance and its outcome.
type SiteAction struct {
	SiteName string
	Action   string
	Status   Status
	Detail   string
}

// InstanceAction records an operation run against an instance: what was
// asked, when it ran, what came back.
type InstanceAction struct {
	id            string
	instanceID    uint
	actionType    Type
	siteVerb      SiteVerb
	status        Status
	startTime     time.Time
	endTime       time.Time
	executionLog  string
	executionInfo string
	siteActions   []SiteAction
	createdAt     time.Time
	updatedAt     time.Time
}

func NewInstanceAction(id string, instanceID uint, actionType Type, siteVerb SiteVerb) (*InstanceAction, error) {
	if id == "" {
		return nil, errors.NewValidationError("action id is required")
	}
	if instanceID == 0 {
		return nil, errors.NewValidationError("instance id is required")
	}
	if !validTypes[actionType] {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid action type: %s", actionType))
	}
	if actionType == TypeSiteManagement {
		if !validSiteVerbs[siteVerb] {
			return nil, errors.NewValidationError(fmt.Sprintf("site management requires a valid site action, got %q", siteVerb))
		}
	} else if siteVerb != "" {
		return nil, errors.NewValidationError(fmt.Sprintf("site action %q is only valid for %s", siteVerb, TypeSiteManagement))
	}
	now := time.Now()
	return &InstanceAction{
		id:         id,
		instanceID: instanceID,
		actionType: actionType,
		siteVerb:   siteVerb,
		status:     StatusPending,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructInstanceAction(
	id string,
	instanceID uint,
	actionType Type,
	siteVerb SiteVerb,
	status Status,
	startTime, endTime time.Time,
	executionLog, executionInfo string,
	siteActions []SiteAction,
	createdAt, updatedAt time.Time,
) *InstanceAction {
	return &InstanceAction{
		id:            id,
		instanceID:    instanceID,
		actionType:    actionType,
		siteVerb:      siteVerb,
		status:        status,
		startTime:     startTime,
		endTime:       endTime,
		executionLog:  executionLog,
		executionInfo: executionInfo,
		siteActions:   siteActions,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (a *InstanceAction) ID() string                { return a.id }
func (a *InstanceAction) InstanceID() uint          { return a.instanceID }
func (a *InstanceAction) ActionType() Type          { return a.actionType }
func (a *InstanceAction) SiteVerb() SiteVerb        { return a.siteVerb }
func (a *InstanceAction) Status() Status            { return a.status }
func (a *InstanceAction) StartTime() time.Time      { return a.startTime }
func (a *InstanceAction) EndTime() time.Time        { return a.endTime }
func (a *InstanceAction) ExecutionLog() string      { return a.executionLog }
func (a *InstanceAction) ExecutionInfo() string     { return a.executionInfo }
func (a *InstanceAction) SiteActions() []SiteAction { return a.siteActions }
func (a *InstanceAction) CreatedAt() time.Time      { return a.createdAt }
func (a *InstanceAction) UpdatedAt() time.Time      { return a.updatedAt }

func (a *InstanceAction) Begin() error {
	if a.status != StatusPending {
		return errors.NewValidationError(
			fmt.Sprintf("action %s cannot start from status %s", a.id, a.status))
	}
	a.status = StatusInProgress
	a.startTime = time.Now()
	a.updatedAt = a.startTime
	return nil
}

func (a *InstanceAction) Complete(executionLog, executionInfo string) error {
	return a.finish(StatusCompleted, executionLog, executionInfo)
}

func (a *InstanceAction) Fail(executionLog string) error {
	return a.finish(StatusFailed, executionLog, "")
}

func (a *InstanceAction) Cancel() error {
	if a.status.IsTerminal() {
		return errors.NewValidationError(
			fmt.Sprintf("action %s is already %s", a.id, a.status))
	}
	a.status = StatusCancelled
	a.endTime = time.Now()
	a.updatedAt = a.endTime
	return nil
}

func (a *InstanceAction) finish(status Status, executionLog, executionInfo string) error {
	if a.status != StatusInProgress {
		return errors.NewValidationError(
			fmt.Sprintf("action %s cannot finish from status %s", a.id, a.status))
	}
	a.status = status
	a.endTime = time.Now()
	a.executionLog = executionLog
	a.executionInfo = executionInfo
	a.updatedAt = a.endTime
	return nil
}

func (a *InstanceAction) AddSiteAction(siteName, siteAction string, status Status, detail string) {
	a.siteActions = append(a.siteActions, SiteAction{
		SiteName: siteName,
		Action:   siteAction,
		Status:   status,
		Detail:   detail,
	})
	a.updatedAt = time.Now()
}

// Duration reports how long the action ran. Zero until finished.
func (a *InstanceAction) Duration() time.Duration {
	if a.startTime.IsZero() || a.endTime.IsZero() {
		return 0
	}
	return a.endTime.Sub(a.startTime)
}
