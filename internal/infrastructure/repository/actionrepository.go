package repository

import (
	"context"
	std_errors "errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/itsyosefali/saas-package-management/internal/domain/action"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/persistence/mappers"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/persistence/models"
	"github.com/itsyosefali/saas-package-management/internal/shared/constants"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

// ActionRepositoryImpl implements the action.Repository interface
type ActionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ActionMapper
	logger logger.Interface
}

// NewActionRepository creates a new instance action repository instance
func NewActionRepository(db *gorm.DB, logger logger.Interface) action.Repository {
	return &ActionRepositoryImpl{
		db:     db,
		mapper: mappers.NewActionMapper(),
		logger: logger,
	}
}

func (r *ActionRepositoryImpl) Create(ctx context.Context, a *action.InstanceAction) error {
	model, err := r.mapper.ToModel(a)
	if err != nil {
		return fmt.Errorf("failed to map action entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create instance action", "error", err)
		return fmt.Errorf("failed to create instance action: %w", err)
	}

	r.logger.Infow("instance action created",
		"id", model.ID,
		"instance_id", model.InstanceID,
		"type", model.ActionType)
	return nil
}

func (r *ActionRepositoryImpl) GetByID(ctx context.Context, id string) (*action.InstanceAction, error) {
	var model models.ActionModel
	if err := r.db.WithContext(ctx).Preload("Sites").
		Where("id = ?", id).First(&model).Error; err != nil {
		if std_errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("instance action not found", fmt.Sprintf("id=%s", id))
		}
		return nil, fmt.Errorf("failed to get instance action: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

// Update replaces the action row and its per-site rows. Actions are
// written only by the worker that owns them, so no version guard here.
func (r *ActionRepositoryImpl) Update(ctx context.Context, a *action.InstanceAction) error {
	model, err := r.mapper.ToModel(a)
	if err != nil {
		return fmt.Errorf("failed to map action entity: %w", err)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ActionModel{}).
			Where("id = ?", model.ID).
			Updates(map[string]interface{}{
				"status":         model.Status,
				"start_time":     model.StartTime,
				"end_time":       model.EndTime,
				"execution_log":  model.ExecutionLog,
				"execution_info": model.ExecutionInfo,
				"updated_at":     model.UpdatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update instance action: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return errors.NewNotFoundError("instance action not found", fmt.Sprintf("id=%s", model.ID))
		}

		if err := tx.Where("action_id = ?", model.ID).Delete(&models.ActionSiteModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear action site rows: %w", err)
		}
		if len(model.Sites) > 0 {
			if err := tx.Create(&model.Sites).Error; err != nil {
				return fmt.Errorf("failed to write action site rows: %w", err)
			}
		}
		return nil
	})
}

func (r *ActionRepositoryImpl) List(ctx context.Context, filter action.Filter) ([]*action.InstanceAction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ActionModel{})

	if filter.InstanceID != 0 {
		query = query.Where("instance_id = ?", filter.InstanceID)
	}
	if filter.ActionType != "" {
		query = query.Where("action_type = ?", filter.ActionType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count instance actions: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = constants.DefaultPage
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > constants.MaxPageSize {
		pageSize = constants.DefaultPageSize
	}

	var actionModels []*models.ActionModel
	if err := query.Preload("Sites").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&actionModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list instance actions: %w", err)
	}

	entities, err := r.mapper.ToEntities(actionModels)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}
