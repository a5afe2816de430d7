package services

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/itsyosefali/saas-package-management/internal/domain/instance"
	"github.com/itsyosefali/saas-package-management/internal/shared/config"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

// ReportCache stores the latest health report per instance for cheap
// status reads.
type ReportCache interface {
	Set(ctx context.Context, instanceID uint, report any) error
}

// Sweeper inspects the whole fleet on a schedule. Instance inspections
// are independent and run concurrently, bounded by a worker budget so a
// large fleet cannot saturate the control host.
type Sweeper struct {
	instanceRepo instance.Repository
	inspector    *Inspector
	cache        ReportCache
	fleet        *config.FleetConfig
	logger       logger.Interface
}

func NewSweeper(
	instanceRepo instance.Repository,
	inspector *Inspector,
	cache ReportCache,
	fleet *config.FleetConfig,
	logger logger.Interface,
) *Sweeper {
	return &Sweeper{
		instanceRepo: instanceRepo,
		inspector:    inspector,
		cache:        cache,
		fleet:        fleet,
		logger:       logger,
	}
}

// SweepOnce inspects every instance and caches the reports. Individual
// inspection failures degrade their own report; the sweep itself only
// fails when the fleet cannot be listed.
func (s *Sweeper) SweepOnce(ctx context.Context) ([]*HealthReport, error) {
	instances, err := s.instanceRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	workers := int64(s.fleet.SweepWorkers)
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(workers)

	reports := make([]*HealthReport, len(instances))
	for i, inst := range instances {
		if err := sem.Acquire(ctx, 1); err != nil {
			return reports, err
		}
		go func(i int, inst *instance.Instance) {
			defer sem.Release(1)
			report := s.inspector.Inspect(ctx, inst)
			reports[i] = report
			if err := s.cache.Set(ctx, inst.ID(), report); err != nil {
				s.logger.Warnw("failed to cache health report", "instance_id", inst.ID(), "error", err)
			}
		}(i, inst)
	}

	// Draining the full weight waits for every in-flight inspection.
	if err := sem.Acquire(ctx, workers); err != nil {
		return reports, err
	}
	sem.Release(workers)

	s.logger.Infow("fleet sweep complete", "instances", len(instances))
	return reports, nil
}

// InspectOne runs a live inspection for a single instance and refreshes
// its cached report. Status endpoints use it on a cache miss.
func (s *Sweeper) InspectOne(ctx context.Context, instanceID uint) (*HealthReport, error) {
	inst, err := s.instanceRepo.GetByID(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	report := s.inspector.Inspect(ctx, inst)
	if err := s.cache.Set(ctx, inst.ID(), report); err != nil {
		s.logger.Warnw("failed to cache health report", "instance_id", inst.ID(), "error", err)
	}
	return report, nil
}

// Run sweeps on the configured interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.fleet.SweepInterval())
	defer ticker.Stop()

	for {
		if _, err := s.SweepOnce(ctx); err != nil {
			s.logger.Errorw("fleet sweep failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
