package repository

import (
	"context"
	std_errors "errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/itsyosefali/saas-package-management/internal/domain/request"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/persistence/mappers"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/persistence/models"
	"github.com/itsyosefali/saas-package-management/internal/shared/constants"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

// RequestRepositoryImpl implements the request.Repository interface
type RequestRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.RequestMapper
	logger logger.Interface
}

// NewRequestRepository creates a new customer request repository instance
func NewRequestRepository(db *gorm.DB, logger logger.Interface) request.Repository {
	return &RequestRepositoryImpl{
		db:     db,
		mapper: mappers.NewRequestMapper(),
		logger: logger,
	}
}

func (r *RequestRepositoryImpl) Create(ctx context.Context, req *request.CustomerRequest) error {
	model, err := r.mapper.ToModel(req)
	if err != nil {
		return fmt.Errorf("failed to map request entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create customer request", "error", err)
		return fmt.Errorf("failed to create customer request: %w", err)
	}

	req.SetID(model.ID)
	r.logger.Infow("customer request created", "id", model.ID, "customer", model.CustomerName)
	return nil
}

func (r *RequestRepositoryImpl) GetByID(ctx context.Context, id uint) (*request.CustomerRequest, error) {
	var model models.RequestModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if std_errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("customer request not found", fmt.Sprintf("id=%d", id))
		}
		return nil, fmt.Errorf("failed to get customer request: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

// Update persists the request guarded by its version counter. A stale
// version means another operator changed the request concurrently.
func (r *RequestRepositoryImpl) Update(ctx context.Context, req *request.CustomerRequest) error {
	model, err := r.mapper.ToModel(req)
	if err != nil {
		return fmt.Errorf("failed to map request entity: %w", err)
	}

	result := r.db.WithContext(ctx).Model(&models.RequestModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]interface{}{
			"customer_name": model.CustomerName,
			"email":         model.Email,
			"package_id":    model.PackageID,
			"package_name":  model.PackageName,
			"custom_domain": model.CustomDomain,
			"notes":         model.Notes,
			"admin_notes":   model.AdminNotes,
			"status":        model.Status,
			"version":       model.Version + 1,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update customer request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		r.db.WithContext(ctx).Model(&models.RequestModel{}).
			Where("id = ?", model.ID).Count(&count)
		if count == 0 {
			return errors.NewNotFoundError("customer request not found", fmt.Sprintf("id=%d", model.ID))
		}
		return errors.NewConflictError("customer request was modified concurrently")
	}
	return nil
}

func (r *RequestRepositoryImpl) List(ctx context.Context, filter request.Filter) ([]*request.CustomerRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.RequestModel{})

	if filter.CustomerName != nil && *filter.CustomerName != "" {
		query = query.Where("customer_name LIKE ?", "%"+*filter.CustomerName+"%")
	}
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customer requests: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = constants.DefaultPage
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > constants.MaxPageSize {
		pageSize = constants.DefaultPageSize
	}

	var requestModels []*models.RequestModel
	if err := query.Order("request_date DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&requestModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list customer requests: %w", err)
	}

	entities, err := r.mapper.ToEntities(requestModels)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}
