package action

import "context"

type Filter struct {
	InstanceID uint
	ActionType string
	Status     string
	Page       int
	PageSize   int
}

type Repository interface {
	Create(ctx context.Context, a *InstanceAction) error
	GetByID(ctx context.Context, id string) (*InstanceAction, error)
	Update(ctx context.Context, a *InstanceAction) error
	List(ctx context.Context, filter Filter) ([]*InstanceAction, int64, error)
}
