package site

import (
	"fmt"
	"time"

	"github.com/itsyosefali/saas-package-management/internal/shared/biztime"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
)

// Site is a provisioned bench site tied to a customer request and the
// instance that hosts it.
type Site struct {
	id           uint
	requestID    uint
	instanceID   uint
	siteName     SiteName
	customDomain DomainName
	status       Status
	creationDate time.Time
	approvalDate time.Time
	expiryDate   time.Time
	// provisionLog carries the captured output of the provisioning run,
	// including failures. It is operator-facing only.
	provisionLog string
	adminNotes   string
	version      int
	createdAt    time.Time
	updatedAt    time.Time
}

func NewSite(requestID, instanceID uint, name SiteName, customDomain DomainName, approvalDate time.Time, validityDays int) (*Site, error) {
	if requestID == 0 {
		return nil, errors.NewValidationError("request id is required")
	}
	if instanceID == 0 {
		return nil, errors.NewValidationError("instance id is required")
	}
	if name.IsEmpty() {
		return nil, errors.NewValidationError("site name is required")
	}
	if validityDays <= 0 {
		return nil, errors.NewValidationError("validity days must be positive")
	}
	now := biztime.NowUTC()
	if approvalDate.IsZero() {
		approvalDate = now
	}
	expiry := biztime.AddDays(approvalDate, validityDays)
	s := &Site{
		requestID:    requestID,
		instanceID:   instanceID,
		siteName:     name,
		customDomain: customDomain,
		status:       StatusCreating,
		creationDate: now,
		approvalDate: approvalDate,
		expiryDate:   expiry,
		version:      1,
		createdAt:    now,
		updatedAt:    now,
	}
	if err := s.validateDates(); err != nil {
		return nil, err
	}
	return s, nil
}

func ReconstructSite(
	id, requestID, instanceID uint,
	name SiteName,
	customDomain DomainName,
	status Status,
	creationDate, approvalDate, expiryDate time.Time,
	provisionLog, adminNotes string,
	version int,
	createdAt, updatedAt time.Time,
) *Site {
	return &Site{
		id:           id,
		requestID:    requestID,
		instanceID:   instanceID,
		siteName:     name,
		customDomain: customDomain,
		status:       status,
		creationDate: creationDate,
		approvalDate: approvalDate,
		expiryDate:   expiryDate,
		provisionLog: provisionLog,
		adminNotes:   adminNotes,
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (s *Site) validateDates() error {
	if s.expiryDate.Before(s.creationDate) || s.expiryDate.Equal(s.creationDate) {
		return errors.NewValidationError("expiry date must be after creation date")
	}
	if s.approvalDate.Before(s.creationDate.Add(-time.Minute)) {
		// Approval happens at or just before creation. Anything earlier
		// indicates clock skew or bad input.
		return errors.NewValidationError("approval date cannot precede creation date")
	}
	return nil
}

func (s *Site) ID() uint                   { return s.id }
func (s *Site) RequestID() uint            { return s.requestID }
func (s *Site) InstanceID() uint           { return s.instanceID }
func (s *Site) SiteName() SiteName         { return s.siteName }
func (s *Site) CustomDomain() DomainName   { return s.customDomain }
func (s *Site) Status() Status             { return s.status }
func (s *Site) CreationDate() time.Time    { return s.creationDate }
func (s *Site) ApprovalDate() time.Time    { return s.approvalDate }
func (s *Site) ExpiryDate() time.Time      { return s.expiryDate }
func (s *Site) ProvisionLog() string       { return s.provisionLog }
func (s *Site) AdminNotes() string         { return s.adminNotes }
func (s *Site) Version() int               { return s.version }
func (s *Site) CreatedAt() time.Time       { return s.createdAt }
func (s *Site) UpdatedAt() time.Time       { return s.updatedAt }

func (s *Site) SetID(id uint) {
	if s.id == 0 {
		s.id = id
	}
}

// URL returns the address the site is served under. The custom domain
// wins when present.
func (s *Site) URL() string {
	if !s.customDomain.IsEmpty() {
		return "https://" + s.customDomain.String()
	}
	return "https://" + s.siteName.String()
}

func (s *Site) changeStatus(target Status) error {
	if err := s.status.ValidateTransition(target); err != nil {
		return err
	}
	s.status = target
	s.updatedAt = time.Now()
	return nil
}

func (s *Site) MarkActive(provisionLog string) error {
	if err := s.changeStatus(StatusActive); err != nil {
		return err
	}
	s.provisionLog = provisionLog
	return nil
}

func (s *Site) MarkFailed(provisionLog string) error {
	if err := s.changeStatus(StatusFailed); err != nil {
		return err
	}
	s.provisionLog = provisionLog
	return nil
}

func (s *Site) MarkExpired() error {
	return s.changeStatus(StatusExpired)
}

// IsExpiredAt reports whether an active site has passed its expiry date.
func (s *Site) IsExpiredAt(now time.Time) bool {
	return s.status.IsActive() && now.After(s.expiryDate)
}

// IsStuckCreating reports whether a site has been in Creating Site
// longer than the grace period, which means its provisioning run died
// without reporting an outcome.
func (s *Site) IsStuckCreating(now time.Time, grace time.Duration) bool {
	return s.status.IsCreating() && now.Sub(s.creationDate) > grace
}

func (s *Site) AppendAdminNote(note string) {
	stamp := time.Now().Format("January 2, 2006 at 3:04 PM")
	entry := fmt.Sprintf("%s: %s", stamp, note)
	if s.adminNotes == "" {
		s.adminNotes = entry
	} else {
		s.adminNotes = s.adminNotes + "\n" + entry
	}
	s.updatedAt = time.Now()
}
