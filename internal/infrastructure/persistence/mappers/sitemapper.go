package mappers

import (
	"fmt"

	"github.com/itsyosefali/saas-package-management/internal/domain/site"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/persistence/models"
)

// SiteMapper handles the conversion between domain entities and persistence models
type SiteMapper interface {
	ToEntity(model *models.SiteModel) (*site.Site, error)
	ToModel(entity *site.Site) (*models.SiteModel, error)
	ToEntities(models []*models.SiteModel) ([]*site.Site, error)
}

// SiteMapperImpl is the concrete implementation of SiteMapper
type SiteMapperImpl struct{}

// NewSiteMapper creates a new site mapper
func NewSiteMapper() SiteMapper {
	return &SiteMapperImpl{}
}

func (m *SiteMapperImpl) ToEntity(model *models.SiteModel) (*site.Site, error) {
	if model == nil {
		return nil, nil
	}

	name, err := site.NewSiteName(model.SiteName)
	if err != nil {
		return nil, fmt.Errorf("failed to create site name value object: %w", err)
	}

	var customDomain site.DomainName
	if model.CustomDomain != "" {
		customDomain, err = site.NewDomainName(model.CustomDomain)
		if err != nil {
			return nil, fmt.Errorf("failed to create domain name value object: %w", err)
		}
	}

	status, err := site.NewStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to create site status value object: %w", err)
	}

	return site.ReconstructSite(
		model.ID,
		model.RequestID,
		model.InstanceID,
		name,
		customDomain,
		status,
		model.CreationDate,
		model.ApprovalDate,
		model.ExpiryDate,
		model.ProvisionLog,
		model.AdminNotes,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

func (m *SiteMapperImpl) ToModel(entity *site.Site) (*models.SiteModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.SiteModel{
		ID:           entity.ID(),
		RequestID:    entity.RequestID(),
		InstanceID:   entity.InstanceID(),
		SiteName:     entity.SiteName().String(),
		CustomDomain: entity.CustomDomain().String(),
		Status:       entity.Status().String(),
		CreationDate: entity.CreationDate(),
		ApprovalDate: entity.ApprovalDate(),
		ExpiryDate:   entity.ExpiryDate(),
		ProvisionLog: entity.ProvisionLog(),
		AdminNotes:   entity.AdminNotes(),
		Version:      entity.Version(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}, nil
}

func (m *SiteMapperImpl) ToEntities(siteModels []*models.SiteModel) ([]*site.Site, error) {
	entities := make([]*site.Site, 0, len(siteModels))
	for _, sm := range siteModels {
		entity, err := m.ToEntity(sm)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
