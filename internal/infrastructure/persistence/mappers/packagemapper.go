package mappers

import (
	"github.com/itsyosefali/saas-package-management/internal/domain/catalog"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/persistence/models"
)

// PackageMapper handles the conversion between domain entities and persistence models
type PackageMapper interface {
	ToEntity(model *models.PackageModel) (*catalog.Package, error)
	ToModel(entity *catalog.Package) (*models.PackageModel, error)
	ToEntities(models []*models.PackageModel) ([]*catalog.Package, error)
}

// PackageMapperImpl is the concrete implementation of PackageMapper
type PackageMapperImpl struct{}

// NewPackageMapper creates a new package mapper
func NewPackageMapper() PackageMapper {
	return &PackageMapperImpl{}
}

func (m *PackageMapperImpl) ToEntity(model *models.PackageModel) (*catalog.Package, error) {
	if model == nil {
		return nil, nil
	}

	return catalog.ReconstructPackage(
		model.ID,
		model.Name,
		model.Price,
		model.UsersLimit,
		model.InvoicesLimit,
		model.ExpensesLimit,
		model.Features,
		model.IsActive,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *PackageMapperImpl) ToModel(entity *catalog.Package) (*models.PackageModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.PackageModel{
		ID:            entity.ID(),
		Name:          entity.Name(),
		Price:         entity.Price(),
		UsersLimit:    entity.UsersLimit(),
		InvoicesLimit: entity.InvoicesLimit(),
		ExpensesLimit: entity.ExpensesLimit(),
		Features:      entity.Features(),
		IsActive:      entity.IsActive(),
		CreatedAt:     entity.CreatedAt(),
		UpdatedAt:     entity.UpdatedAt(),
	}, nil
}

func (m *PackageMapperImpl) ToEntities(packageModels []*models.PackageModel) ([]*catalog.Package, error) {
	entities := make([]*catalog.Package, 0, len(packageModels))
	for _, pm := range packageModels {
		entity, err := m.ToEntity(pm)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
