package instance

import (
	"time"

	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
)

// Group is a named pool of instances bound to a single package. Instances
// joined to a group inherit its package affinity; an instance whose own
// affinity disagrees with its group is rejected.
type Group struct {
	id          uint
	name        string
	packageID   uint
	description string
	isActive    bool
	createdAt   time.Time
	updatedAt   time.Time
}

func NewGroup(name string, packageID uint, description string) (*Group, error) {
	if name == "" {
		return nil, errors.NewValidationError("group name is required")
	}
	if packageID == 0 {
		return nil, errors.NewValidationError("group package is required")
	}
	now := time.Now()
	return &Group{
		name:        name,
		packageID:   packageID,
		description: description,
		isActive:    true,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructGroup(id uint, name string, packageID uint, description string, isActive bool, createdAt, updatedAt time.Time) (*Group, error) {
	if id == 0 {
		return nil, errors.NewValidationError("group ID cannot be zero")
	}
	return &Group{
		id:          id,
		name:        name,
		packageID:   packageID,
		description: description,
		isActive:    isActive,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (g *Group) ID() uint          { return g.id }
func (g *Group) Name() string      { return g.name }
func (g *Group) PackageID() uint   { return g.packageID }
func (g *Group) Description() string { return g.description }
func (g *Group) IsActive() bool    { return g.isActive }
func (g *Group) CreatedAt() time.Time { return g.createdAt }
func (g *Group) UpdatedAt() time.Time { return g.updatedAt }

func (g *Group) SetID(id uint) error {
	if g.id != 0 {
		return errors.NewInternalError("group ID already set")
	}
	if id == 0 {
		return errors.NewValidationError("group ID cannot be zero")
	}
	g.id = id
	return nil
}

// ValidateAffinity checks that an instance joining this group carries the
// group's package.
func (g *Group) ValidateAffinity(instancePackageID uint) error {
	if instancePackageID != 0 && instancePackageID != g.packageID {
		return errors.NewValidationError("instance package does not match its group's package")
	}
	return nil
}
