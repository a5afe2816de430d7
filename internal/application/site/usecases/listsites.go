package usecases

import (
	"context"
	"time"

	"github.com/itsyosefali/saas-package-management/internal/domain/site"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

type ListSitesQuery struct {
	Status     string
	InstanceID uint
	Page       int
	PageSize   int
}

type SiteDTO struct {
	ID           uint      `json:"id"`
	RequestID    uint      `json:"request_id"`
	InstanceID   uint      `json:"instance_id"`
	SiteName     string    `json:"site_name"`
	CustomDomain string    `json:"custom_domain"`
	URL          string    `json:"url"`
	Status       string    `json:"status"`
	CreationDate time.Time `json:"creation_date"`
	ApprovalDate time.Time `json:"approval_date"`
	ExpiryDate   time.Time `json:"expiry_date"`
	AdminNotes   string    `json:"admin_notes,omitempty"`
}

type ListSitesResult struct {
	Sites []SiteDTO `json:"sites"`
	Total int64     `json:"total"`
}

type ListSitesUseCase struct {
	siteRepo site.Repository
	logger   logger.Interface
}

func NewListSitesUseCase(siteRepo site.Repository, logger logger.Interface) *ListSitesUseCase {
	return &ListSitesUseCase{
		siteRepo: siteRepo,
		logger:   logger,
	}
}

func (uc *ListSitesUseCase) Execute(ctx context.Context, query ListSitesQuery) (*ListSitesResult, error) {
	filter := site.Filter{
		Status:     query.Status,
		InstanceID: query.InstanceID,
		Page:       query.Page,
		PageSize:   query.PageSize,
	}

	sites, total, err := uc.siteRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list sites", "error", err)
		return nil, err
	}

	dtos := make([]SiteDTO, 0, len(sites))
	for _, s := range sites {
		dtos = append(dtos, toSiteDTO(s))
	}
	return &ListSitesResult{Sites: dtos, Total: total}, nil
}

func toSiteDTO(s *site.Site) SiteDTO {
	return SiteDTO{
		ID:           s.ID(),
		RequestID:    s.RequestID(),
		InstanceID:   s.InstanceID(),
		SiteName:     s.SiteName().String(),
		CustomDomain: s.CustomDomain().String(),
		URL:          s.URL(),
		Status:       s.Status().String(),
		CreationDate: s.CreationDate(),
		ApprovalDate: s.ApprovalDate(),
		ExpiryDate:   s.ExpiryDate(),
		AdminNotes:   s.AdminNotes(),
	}
}
