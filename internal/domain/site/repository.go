package site

import (
	"context"
	"time"
)

type Filter struct {
	Status     string
	InstanceID uint
	Page       int
	PageSize   int
}

type Repository interface {
	Create(ctx context.Context, s *Site) error
	GetByID(ctx context.Context, id uint) (*Site, error)
	GetByRequestID(ctx context.Context, requestID uint) (*Site, error)
	// Update persists the site guarded by its version counter.
	Update(ctx context.Context, s *Site) error
	List(ctx context.Context, filter Filter) ([]*Site, int64, error)
	ExistsByRequestID(ctx context.Context, requestID uint) (bool, error)
	ExistsBySiteName(ctx context.Context, name string) (bool, error)
	ListByInstanceID(ctx context.Context, instanceID uint) ([]*Site, error)
	// GetByCustomDomains resolves a batch of observed domains to known
	// site records in one query, keyed by the custom domain string.
	GetByCustomDomains(ctx context.Context, domains []string) (map[string]*Site, error)
	// ListExpired returns active sites whose expiry date is before now.
	ListExpired(ctx context.Context, now time.Time) ([]*Site, error)
	// ListStuckCreating returns sites still in Creating Site that were
	// created before the given cutoff.
	ListStuckCreating(ctx context.Context, cutoff time.Time) ([]*Site, error)
}
