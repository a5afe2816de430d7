package repository

import (
	"context"
	std_errors "errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/itsyosefali/saas-package-management/internal/domain/instance"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/persistence/mappers"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/persistence/models"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

// InstanceRepositoryImpl implements the instance.Repository interface
type InstanceRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.InstanceMapper
	logger logger.Interface
}

// NewInstanceRepository creates a new instance repository instance
func NewInstanceRepository(db *gorm.DB, logger logger.Interface) instance.Repository {
	return &InstanceRepositoryImpl{
		db:     db,
		mapper: mappers.NewInstanceMapper(),
		logger: logger,
	}
}

func (r *InstanceRepositoryImpl) Create(ctx context.Context, inst *instance.Instance) error {
	model, err := r.mapper.ToModel(inst)
	if err != nil {
		return fmt.Errorf("failed to map instance entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateEntry(err) {
			return errors.NewConflictError("instance with this name already exists")
		}
		r.logger.Errorw("failed to create instance", "error", err)
		return fmt.Errorf("failed to create instance: %w", err)
	}

	if err := inst.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set instance ID: %w", err)
	}

	r.logger.Infow("instance created", "id", model.ID, "name", model.Name, "host", model.Host)
	return nil
}

func (r *InstanceRepositoryImpl) GetByID(ctx context.Context, id uint) (*instance.Instance, error) {
	var model models.InstanceModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if std_errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("instance not found", fmt.Sprintf("id=%d", id))
		}
		return nil, fmt.Errorf("failed to get instance: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

// Update persists the instance guarded by its version counter. The
// allocator and the health sweep both write instances, so a lost race
// surfaces as a conflict instead of a silent overwrite.
func (r *InstanceRepositoryImpl) Update(ctx context.Context, inst *instance.Instance) error {
	model, err := r.mapper.ToModel(inst)
	if err != nil {
		return fmt.Errorf("failed to map instance entity: %w", err)
	}

	result := r.db.WithContext(ctx).Model(&models.InstanceModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]interface{}{
			"name":                  model.Name,
			"host":                  model.Host,
			"port":                  model.Port,
			"username":              model.Username,
			"encrypted_password":    model.EncryptedPassword,
			"encrypted_db_password": model.EncryptedDBPassword,
			"ram_gb":                model.RAMGB,
			"cpu_cores":             model.CPUCores,
			"storage_gb":            model.StorageGB,
			"bench_path":            model.BenchPath,
			"package_id":            model.PackageID,
			"group_id":              model.GroupID,
			"deployment_status":     model.DeploymentStatus,
			"is_active":             model.IsActive,
			"server_url":            model.ServerURL,
			"last_backup_at":        model.LastBackupAt,
			"version":               model.Version + 1,
			"updated_at":            model.UpdatedAt,
		})
	if result.Error != nil {
		if isDuplicateEntry(result.Error) {
			return errors.NewConflictError("instance with this name already exists")
		}
		return fmt.Errorf("failed to update instance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		r.db.WithContext(ctx).Model(&models.InstanceModel{}).
			Where("id = ?", model.ID).Count(&count)
		if count == 0 {
			return errors.NewNotFoundError("instance not found", fmt.Sprintf("id=%d", model.ID))
		}
		return errors.NewConflictError("instance was modified concurrently")
	}
	return nil
}

func (r *InstanceRepositoryImpl) List(ctx context.Context) ([]*instance.Instance, error) {
	var instanceModels []*models.InstanceModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&instanceModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}
	return r.mapper.ToEntities(instanceModels)
}

// ListEligible returns active, allocatable instances bound to the given
// package, earliest onboarded first. The allocator walks this list in
// order so capacity fills up oldest instance first.
func (r *InstanceRepositoryImpl) ListEligible(ctx context.Context, packageID uint) ([]*instance.Instance, error) {
	var instanceModels []*models.InstanceModel
	if err := r.db.WithContext(ctx).
		Where("package_id = ? AND is_active = ? AND deployment_status IN ?",
			packageID, true, []string{"Running", "Deployed"}).
		Order("created_at ASC").
		Find(&instanceModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list eligible instances: %w", err)
	}
	return r.mapper.ToEntities(instanceModels)
}

// GroupRepositoryImpl implements the instance.GroupRepository interface
type GroupRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.GroupMapper
	logger logger.Interface
}

// NewGroupRepository creates a new instance group repository instance
func NewGroupRepository(db *gorm.DB, logger logger.Interface) instance.GroupRepository {
	return &GroupRepositoryImpl{
		db:     db,
		mapper: mappers.NewGroupMapper(),
		logger: logger,
	}
}

func (r *GroupRepositoryImpl) Create(ctx context.Context, group *instance.Group) error {
	model, err := r.mapper.ToModel(group)
	if err != nil {
		return fmt.Errorf("failed to map group entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateEntry(err) {
			return errors.NewConflictError("instance group with this name already exists")
		}
		return fmt.Errorf("failed to create instance group: %w", err)
	}

	if err := group.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set group ID: %w", err)
	}
	return nil
}

func (r *GroupRepositoryImpl) GetByID(ctx context.Context, id uint) (*instance.Group, error) {
	var model models.InstanceGroupModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if std_errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("instance group not found", fmt.Sprintf("id=%d", id))
		}
		return nil, fmt.Errorf("failed to get instance group: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *GroupRepositoryImpl) List(ctx context.Context) ([]*instance.Group, error) {
	var groupModels []*models.InstanceGroupModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&groupModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list instance groups: %w", err)
	}
	return r.mapper.ToEntities(groupModels)
}
