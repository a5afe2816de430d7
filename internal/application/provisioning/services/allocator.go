package services

import (
	"context"

	"github.com/itsyosefali/saas-package-management/internal/domain/instance"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

// AllocationLocker serializes allocation per package so two concurrent
// approvals cannot claim the same instance.
type AllocationLocker interface {
	Acquire(ctx context.Context, packageID uint) (token string, err error)
	Release(ctx context.Context, packageID uint, token string) error
}

// Allocator assigns tenant sites to fleet capacity. Eligible instances
// share the requested package affinity, are active, and sit in an
// allocatable deployment status; the earliest onboarded one wins.
type Allocator struct {
	instanceRepo instance.Repository
	lock         AllocationLocker
	logger       logger.Interface
}

func NewAllocator(instanceRepo instance.Repository, lock AllocationLocker, logger logger.Interface) *Allocator {
	return &Allocator{
		instanceRepo: instanceRepo,
		lock:         lock,
		logger:       logger,
	}
}

// Allocate claims an instance for the given package and records the
// server URL on it. Returns a no-capacity error when the eligible set is
// empty; the caller must not create a site in that case.
func (a *Allocator) Allocate(ctx context.Context, packageID uint, serverURL string) (*instance.Instance, error) {
	token, err := a.lock.Acquire(ctx, packageID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := a.lock.Release(context.WithoutCancel(ctx), packageID, token); err != nil {
			a.logger.Warnw("failed to release allocation lock", "package_id", packageID, "error", err)
		}
	}()

	// One retry: a concurrent health sweep may bump the chosen row's
	// version between our read and the claim write.
	for attempt := 0; attempt < 2; attempt++ {
		eligible, err := a.instanceRepo.ListEligible(ctx, packageID)
		if err != nil {
			return nil, err
		}
		if len(eligible) == 0 {
			return nil, errors.NewNoCapacityError("no available instances found for this package")
		}

		chosen := eligible[0]
		if err := chosen.Claim(serverURL); err != nil {
			return nil, err
		}
		if err := a.instanceRepo.Update(ctx, chosen); err != nil {
			if errors.IsConflictError(err) && attempt == 0 {
				a.logger.Warnw("allocation lost version race, retrying", "instance_id", chosen.ID(), "package_id", packageID)
				continue
			}
			return nil, err
		}

		a.logger.Infow("instance allocated", "instance_id", chosen.ID(), "package_id", packageID, "server_url", serverURL)
		return chosen, nil
	}

	return nil, errors.NewConflictError("allocation kept losing to concurrent instance updates")
}
