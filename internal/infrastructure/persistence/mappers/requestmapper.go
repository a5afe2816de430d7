package mappers

import (
	"fmt"

	"github.com/itsyosefali/saas-package-management/internal/domain/request"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/persistence/models"
)

// RequestMapper handles the conversion between domain entities and persistence models
type RequestMapper interface {
	ToEntity(model *models.RequestModel) (*request.CustomerRequest, error)
	ToModel(entity *request.CustomerRequest) (*models.RequestModel, error)
	ToEntities(models []*models.RequestModel) ([]*request.CustomerRequest, error)
}

// RequestMapperImpl is the concrete implementation of RequestMapper
type RequestMapperImpl struct{}

// NewRequestMapper creates a new request mapper
func NewRequestMapper() RequestMapper {
	return &RequestMapperImpl{}
}

func (m *RequestMapperImpl) ToEntity(model *models.RequestModel) (*request.CustomerRequest, error) {
	if model == nil {
		return nil, nil
	}

	status, err := request.NewStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to create status value object: %w", err)
	}

	return request.ReconstructCustomerRequest(
		model.ID,
		model.CustomerName,
		model.Email,
		model.PackageID,
		model.PackageName,
		model.CustomDomain,
		model.RequestDate,
		model.Notes,
		model.AdminNotes,
		status,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *RequestMapperImpl) ToModel(entity *request.CustomerRequest) (*models.RequestModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.RequestModel{
		ID:           entity.ID(),
		CustomerName: entity.CustomerName(),
		Email:        entity.Email(),
		PackageID:    entity.PackageID(),
		PackageName:  entity.PackageName(),
		CustomDomain: entity.CustomDomain(),
		RequestDate:  entity.RequestDate(),
		Notes:        entity.Notes(),
		AdminNotes:   entity.AdminNotes(),
		Status:       entity.Status().String(),
		Version:      entity.Version(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}, nil
}

func (m *RequestMapperImpl) ToEntities(requestModels []*models.RequestModel) ([]*request.CustomerRequest, error) {
	entities := make([]*request.CustomerRequest, 0, len(requestModels))
	for _, rm := range requestModels {
		entity, err := m.ToEntity(rm)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
