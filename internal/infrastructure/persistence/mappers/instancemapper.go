package mappers

import (
	"fmt"

	"github.com/itsyosefali/saas-package-management/internal/domain/instance"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/persistence/models"
)

// InstanceMapper handles the conversion between domain entities and persistence models
type InstanceMapper interface {
	ToEntity(model *models.InstanceModel) (*instance.Instance, error)
	ToModel(entity *instance.Instance) (*models.InstanceModel, error)
	ToEntities(models []*models.InstanceModel) ([]*instance.Instance, error)
}

// InstanceMapperImpl is the concrete implementation of InstanceMapper
type InstanceMapperImpl struct{}

// NewInstanceMapper creates a new instance mapper
func NewInstanceMapper() InstanceMapper {
	return &InstanceMapperImpl{}
}

func (m *InstanceMapperImpl) ToEntity(model *models.InstanceModel) (*instance.Instance, error) {
	if model == nil {
		return nil, nil
	}

	credentials, err := instance.NewCredentials(
		model.Host,
		model.Port,
		model.Username,
		model.EncryptedPassword,
		model.EncryptedDBPassword,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create credentials value object: %w", err)
	}

	status, err := instance.NewDeploymentStatus(model.DeploymentStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to create deployment status value object: %w", err)
	}

	return instance.ReconstructInstance(
		model.ID,
		model.Name,
		credentials,
		model.RAMGB,
		model.CPUCores,
		model.StorageGB,
		model.BenchPath,
		model.PackageID,
		model.GroupID,
		status,
		model.IsActive,
		model.ServerURL,
		model.LastBackupAt,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *InstanceMapperImpl) ToModel(entity *instance.Instance) (*models.InstanceModel, error) {
	if entity == nil {
		return nil, nil
	}

	creds := entity.Credentials()
	return &models.InstanceModel{
		ID:                  entity.ID(),
		Name:                entity.Name(),
		Host:                creds.Host(),
		Port:                creds.Port(),
		Username:            creds.Username(),
		EncryptedPassword:   creds.EncryptedPassword(),
		EncryptedDBPassword: creds.EncryptedDBPassword(),
		RAMGB:               entity.RAMGB(),
		CPUCores:            entity.CPUCores(),
		StorageGB:           entity.StorageGB(),
		BenchPath:           entity.BenchPath(),
		PackageID:           entity.PackageID(),
		GroupID:             entity.GroupID(),
		DeploymentStatus:    entity.DeploymentStatus().String(),
		IsActive:            entity.IsActive(),
		ServerURL:           entity.ServerURL(),
		LastBackupAt:        entity.LastBackupAt(),
		Version:             entity.Version(),
		CreatedAt:           entity.CreatedAt(),
		UpdatedAt:           entity.UpdatedAt(),
	}, nil
}

func (m *InstanceMapperImpl) ToEntities(instanceModels []*models.InstanceModel) ([]*instance.Instance, error) {
	entities := make([]*instance.Instance, 0, len(instanceModels))
	for _, im := range instanceModels {
		entity, err := m.ToEntity(im)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// GroupMapper handles the conversion between instance groups and persistence models
type GroupMapper interface {
	ToEntity(model *models.InstanceGroupModel) (*instance.Group, error)
	ToModel(entity *instance.Group) (*models.InstanceGroupModel, error)
	ToEntities(models []*models.InstanceGroupModel) ([]*instance.Group, error)
}

// GroupMapperImpl is the concrete implementation of GroupMapper
type GroupMapperImpl struct{}

// NewGroupMapper creates a new group mapper
func NewGroupMapper() GroupMapper {
	return &GroupMapperImpl{}
}

func (m *GroupMapperImpl) ToEntity(model *models.InstanceGroupModel) (*instance.Group, error) {
	if model == nil {
		return nil, nil
	}
	return instance.ReconstructGroup(
		model.ID,
		model.Name,
		model.PackageID,
		model.Description,
		model.IsActive,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *GroupMapperImpl) ToModel(entity *instance.Group) (*models.InstanceGroupModel, error) {
	if entity == nil {
		return nil, nil
	}
	return &models.InstanceGroupModel{
		ID:          entity.ID(),
		Name:        entity.Name(),
		PackageID:   entity.PackageID(),
		Description: entity.Description(),
		IsActive:    entity.IsActive(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}, nil
}

func (m *GroupMapperImpl) ToEntities(groupModels []*models.InstanceGroupModel) ([]*instance.Group, error) {
	entities := make([]*instance.Group, 0, len(groupModels))
	for _, gm := range groupModels {
		entity, err := m.ToEntity(gm)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
