package request

import "context"

type Filter struct {
	CustomerName *string
	Status       *Status
	Page         int
	PageSize     int
}

type Repository interface {
	Create(ctx context.Context, req *CustomerRequest) error
	GetByID(ctx context.Context, id uint) (*CustomerRequest, error)
	// Update persists the request using its version counter; a stale
	// version yields a conflict error.
	Update(ctx context.Context, req *CustomerRequest) error
	List(ctx context.Context, filter Filter) ([]*CustomerRequest, int64, error)
}
