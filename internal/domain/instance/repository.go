package instance

import "context"

type Repository interface {
	Create(ctx context.Context, inst *Instance) error
	GetByID(ctx context.Context, id uint) (*Instance, error)
	// Update persists the instance guarded by its version counter. A stale
	// version returns a conflict error; allocation and health sweeps both
	// rely on this to avoid lost updates.
	Update(ctx context.Context, inst *Instance) error
	List(ctx context.Context) ([]*Instance, error)
	// ListEligible returns active instances with the given package affinity
	// in an allocatable deployment status, ordered by creation time
	// ascending (earliest onboarded first).
	ListEligible(ctx context.Context, packageID uint) ([]*Instance, error)
}

type GroupRepository interface {
	Create(ctx context.Context, group *Group) error
	GetByID(ctx context.Context, id uint) (*Group, error)
	List(ctx context.Context) ([]*Group, error)
}
