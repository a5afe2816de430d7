package services

import (
	"context"

	"github.com/itsyosefali/saas-package-management/internal/domain/site"
	"github.com/itsyosefali/saas-package-management/internal/shared/biztime"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

// ExpirySweep retires active sites past their expiry date. Expiry is the
// only automatic status regression; everything else needs an operator.
type ExpirySweep struct {
	siteRepo site.Repository
	logger   logger.Interface
}

func NewExpirySweep(siteRepo site.Repository, logger logger.Interface) *ExpirySweep {
	return &ExpirySweep{
		siteRepo: siteRepo,
		logger:   logger,
	}
}

// Run expires every active site whose expiry date has passed. Expiry is
// day-granular: a site stays active through the whole calendar day its
// expiry date falls on. Returns the number of sites expired. A conflict
// on one site skips it; the next sweep picks it up again.
func (s *ExpirySweep) Run(ctx context.Context) (int, error) {
	cutoff := biztime.StartOfDayUTC(biztime.NowUTC())
	expired, err := s.siteRepo.ListExpired(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, candidate := range expired {
		if err := candidate.MarkExpired(); err != nil {
			s.logger.Warnw("site cannot expire from current status", "site_id", candidate.ID(), "status", candidate.Status(), "error", err)
			continue
		}
		if err := s.siteRepo.Update(ctx, candidate); err != nil {
			if errors.IsConflictError(err) {
				s.logger.Infow("expiry update lost version race, will retry next sweep", "site_id", candidate.ID())
				continue
			}
			return count, err
		}
		s.logger.Infow("site expired", "site_id", candidate.ID(), "site_name", candidate.SiteName().String(), "expiry_date", candidate.ExpiryDate())
		count++
	}
	return count, nil
}
