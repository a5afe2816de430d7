package services

import (
	"context"
	"fmt"
	"time"

	"github.com/itsyosefali/saas-package-management/internal/domain/site"
	"github.com/itsyosefali/saas-package-management/internal/shared/biztime"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

// RecoverySweep fails sites stuck in Creating Site past a grace period.
// A provisioning run that dies without reaching a terminal status (a
// crashed worker, a lost connection) leaves the record stuck; marking it
// Failed surfaces it for manual remediation instead of letting it hang
// forever.
type RecoverySweep struct {
	siteRepo site.Repository
	grace    time.Duration
	logger   logger.Interface
}

func NewRecoverySweep(siteRepo site.Repository, grace time.Duration, logger logger.Interface) *RecoverySweep {
	return &RecoverySweep{
		siteRepo: siteRepo,
		grace:    grace,
		logger:   logger,
	}
}

// Run fails every site stuck in Creating Site longer than the grace
// period. Returns the number of sites failed.
func (s *RecoverySweep) Run(ctx context.Context) (int, error) {
	cutoff := biztime.NowUTC().Add(-s.grace)
	stuck, err := s.siteRepo.ListStuckCreating(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, candidate := range stuck {
		reason := fmt.Sprintf("provisioning did not reach a terminal status within %s; marked failed by recovery sweep", s.grace)
		if err := candidate.MarkFailed(reason); err != nil {
			s.logger.Warnw("stuck site cannot be failed from current status", "site_id", candidate.ID(), "status", candidate.Status(), "error", err)
			continue
		}
		if err := s.siteRepo.Update(ctx, candidate); err != nil {
			if errors.IsConflictError(err) {
				// The workflow finished after all; leave it alone.
				s.logger.Infow("recovery update lost version race", "site_id", candidate.ID())
				continue
			}
			return count, err
		}
		s.logger.Warnw("stuck site marked failed", "site_id", candidate.ID(), "site_name", candidate.SiteName().String())
		count++
	}
	return count, nil
}
