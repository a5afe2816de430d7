package request

import (
	"fmt"
	"time"

	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
)

// CustomerRequest is a tenant's package order. It is created by the
// customer-facing API and mutated only by operators (status, admin notes)
// or by the system when the associated site is created.
type CustomerRequest struct {
	id           uint
	customerName string
	email        string
	packageID    uint
	packageName  string
	customDomain string
	requestDate  time.Time
	notes        string
	adminNotes   string
	status       Status
	version      int
	createdAt    time.Time
	updatedAt    time.Time
}

// NewCustomerRequest creates a pending customer request.
func NewCustomerRequest(customerName, email string, packageID uint, packageName, customDomain, notes string, requestDate time.Time) (*CustomerRequest, error) {
	if customerName == "" {
		return nil, errors.NewValidationError("customer name is required")
	}
	if packageID == 0 {
		return nil, errors.NewValidationError("package is required")
	}
	if requestDate.IsZero() {
		return nil, errors.NewValidationError("request date is required")
	}

	now := time.Now()
	return &CustomerRequest{
		customerName: customerName,
		email:        email,
		packageID:    packageID,
		packageName:  packageName,
		customDomain: customDomain,
		requestDate:  requestDate,
		notes:        notes,
		status:       StatusPending,
		version:      1,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructCustomerRequest reconstructs a request from persistence.
func ReconstructCustomerRequest(id uint, customerName, email string, packageID uint, packageName, customDomain string, requestDate time.Time, notes, adminNotes string, status Status, version int, createdAt, updatedAt time.Time) (*CustomerRequest, error) {
	if id == 0 {
		return nil, errors.NewValidationError("request ID cannot be zero")
	}
	return &CustomerRequest{
		id:           id,
		customerName: customerName,
		email:        email,
		packageID:    packageID,
		packageName:  packageName,
		customDomain: customDomain,
		requestDate:  requestDate,
		notes:        notes,
		adminNotes:   adminNotes,
		status:       status,
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (r *CustomerRequest) ID() uint             { return r.id }
func (r *CustomerRequest) CustomerName() string { return r.customerName }
func (r *CustomerRequest) Email() string        { return r.email }
func (r *CustomerRequest) PackageID() uint      { return r.packageID }
func (r *CustomerRequest) PackageName() string  { return r.packageName }
func (r *CustomerRequest) CustomDomain() string { return r.customDomain }
func (r *CustomerRequest) RequestDate() time.Time { return r.requestDate }
func (r *CustomerRequest) Notes() string        { return r.notes }
func (r *CustomerRequest) AdminNotes() string   { return r.adminNotes }
func (r *CustomerRequest) Status() Status       { return r.status }
func (r *CustomerRequest) Version() int         { return r.version }
func (r *CustomerRequest) CreatedAt() time.Time { return r.createdAt }
func (r *CustomerRequest) UpdatedAt() time.Time { return r.updatedAt }

// SetID assigns the database identity after insertion.
func (r *CustomerRequest) SetID(id uint) error {
	if r.id != 0 {
		return errors.NewInternalError("request ID already set")
	}
	if id == 0 {
		return errors.NewValidationError("request ID cannot be zero")
	}
	r.id = id
	return nil
}

// ChangeStatus moves the request through its lifecycle. Only legal
// transitions are accepted.
func (r *CustomerRequest) ChangeStatus(target Status, adminNotes string) error {
	if err := r.status.ValidateTransition(target); err != nil {
		return errors.NewValidationError(err.Error())
	}
	r.status = target
	if adminNotes != "" {
		r.adminNotes = adminNotes
	}
	r.updatedAt = time.Now()
	return nil
}

// Approve marks the request ready for site creation.
func (r *CustomerRequest) Approve(adminNotes string) error {
	return r.ChangeStatus(StatusApproved, adminNotes)
}

// AnnotateSiteCreated records, on the request, that its site was created.
// The request itself stays Approved: the site record carries the
// fulfilment state from here on.
func (r *CustomerRequest) AnnotateSiteCreated(siteName string, at time.Time) {
	note := fmt.Sprintf("Customer Site created: %s on %s", siteName, at.Format("January 2, 2006 at 3:04 PM"))
	if r.adminNotes != "" {
		r.adminNotes = r.adminNotes + "\n" + note
	} else {
		r.adminNotes = note
	}
	r.updatedAt = time.Now()
}
