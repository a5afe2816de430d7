package catalog

import (
	"time"

	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
)

// Package is a catalog entry: a subscription tier with usage limits and a
// price. Once a customer request references it, only administrative edits
// may change it.
type Package struct {
	id            uint
	name          string
	price         float64
	usersLimit    int
	invoicesLimit int
	expensesLimit int
	features      string
	isActive      bool
	createdAt     time.Time
	updatedAt     time.Time
}

// NewPackage creates a new catalog package.
func NewPackage(name string, price float64, usersLimit, invoicesLimit, expensesLimit int, features string) (*Package, error) {
	if name == "" {
		return nil, errors.NewValidationError("package name is required")
	}
	if price < 0 {
		return nil, errors.NewValidationError("price cannot be negative")
	}
	if usersLimit < 0 {
		return nil, errors.NewValidationError("users limit cannot be negative")
	}
	if invoicesLimit < 0 {
		return nil, errors.NewValidationError("invoices limit cannot be negative")
	}
	if expensesLimit < 0 {
		return nil, errors.NewValidationError("expenses limit cannot be negative")
	}

	now := time.Now()
	return &Package{
		name:          name,
		price:         price,
		usersLimit:    usersLimit,
		invoicesLimit: invoicesLimit,
		expensesLimit: expensesLimit,
		features:      features,
		isActive:      true,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructPackage reconstructs a package from persistence.
func ReconstructPackage(id uint, name string, price float64, usersLimit, invoicesLimit, expensesLimit int, features string, isActive bool, createdAt, updatedAt time.Time) (*Package, error) {
	if id == 0 {
		return nil, errors.NewValidationError("package ID cannot be zero")
	}
	if name == "" {
		return nil, errors.NewValidationError("package name is required")
	}
	return &Package{
		id:            id,
		name:          name,
		price:         price,
		usersLimit:    usersLimit,
		invoicesLimit: invoicesLimit,
		expensesLimit: expensesLimit,
		features:      features,
		isActive:      isActive,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

func (p *Package) ID() uint            { return p.id }
func (p *Package) Name() string        { return p.name }
func (p *Package) Price() float64      { return p.price }
func (p *Package) UsersLimit() int     { return p.usersLimit }
func (p *Package) InvoicesLimit() int  { return p.invoicesLimit }
func (p *Package) ExpensesLimit() int  { return p.expensesLimit }
func (p *Package) Features() string    { return p.features }
func (p *Package) IsActive() bool      { return p.isActive }
func (p *Package) CreatedAt() time.Time { return p.createdAt }
func (p *Package) UpdatedAt() time.Time { return p.updatedAt }

// SetID assigns the database identity after insertion.
func (p *Package) SetID(id uint) error {
	if p.id != 0 {
		return errors.NewInternalError("package ID already set")
	}
	if id == 0 {
		return errors.NewValidationError("package ID cannot be zero")
	}
	p.id = id
	return nil
}

// UpdateDetails applies an administrative edit.
func (p *Package) UpdateDetails(price float64, usersLimit, invoicesLimit, expensesLimit int, features string) error {
	if price < 0 {
		return errors.NewValidationError("price cannot be negative")
	}
	if usersLimit < 0 || invoicesLimit < 0 || expensesLimit < 0 {
		return errors.NewValidationError("limits cannot be negative")
	}
	p.price = price
	p.usersLimit = usersLimit
	p.invoicesLimit = invoicesLimit
	p.expensesLimit = expensesLimit
	p.features = features
	p.updatedAt = time.Now()
	return nil
}

// Activate marks the package as orderable.
func (p *Package) Activate() {
	p.isActive = true
	p.updatedAt = time.Now()
}

// Deactivate removes the package from the orderable catalog without
// affecting existing sites.
func (p *Package) Deactivate() {
	p.isActive = false
	p.updatedAt = time.Now()
}
