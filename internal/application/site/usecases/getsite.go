package usecases

import (
	"context"

	"github.com/itsyosefali/saas-package-management/internal/domain/site"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

// SiteDetailDTO extends the list view with the captured provisioning
// log. It is an operator-only view.
type SiteDetailDTO struct {
	SiteDTO
	ProvisionLog string `json:"provision_log"`
}

type GetSiteUseCase struct {
	siteRepo site.Repository
	logger   logger.Interface
}

func NewGetSiteUseCase(siteRepo site.Repository, logger logger.Interface) *GetSiteUseCase {
	return &GetSiteUseCase{
		siteRepo: siteRepo,
		logger:   logger,
	}
}

func (uc *GetSiteUseCase) Execute(ctx context.Context, siteID uint) (*SiteDetailDTO, error) {
	s, err := uc.siteRepo.GetByID(ctx, siteID)
	if err != nil {
		return nil, err
	}
	return &SiteDetailDTO{
		SiteDTO:      toSiteDTO(s),
		ProvisionLog: s.ProvisionLog(),
	}, nil
}
