package repository

import (
	"context"
	std_errors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/itsyosefali/saas-package-management/internal/domain/site"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/persistence/mappers"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/persistence/models"
	"github.com/itsyosefali/saas-package-management/internal/shared/constants"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

// SiteRepositoryImpl implements the site.Repository interface
type SiteRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SiteMapper
	logger logger.Interface
}

// NewSiteRepository creates a new site repository instance
func NewSiteRepository(db *gorm.DB, logger logger.Interface) site.Repository {
	return &SiteRepositoryImpl{
		db:     db,
		mapper: mappers.NewSiteMapper(),
		logger: logger,
	}
}

func (r *SiteRepositoryImpl) Create(ctx context.Context, s *site.Site) error {
	model, err := r.mapper.ToModel(s)
	if err != nil {
		return fmt.Errorf("failed to map site entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateEntry(err) {
			return errors.NewConflictError("site already exists for this request or name")
		}
		r.logger.Errorw("failed to create site", "error", err)
		return fmt.Errorf("failed to create site: %w", err)
	}

	s.SetID(model.ID)
	r.logger.Infow("site created", "id", model.ID, "site_name", model.SiteName)
	return nil
}

func (r *SiteRepositoryImpl) GetByID(ctx context.Context, id uint) (*site.Site, error) {
	var model models.SiteModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if std_errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("site not found", fmt.Sprintf("id=%d", id))
		}
		return nil, fmt.Errorf("failed to get site: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *SiteRepositoryImpl) GetByRequestID(ctx context.Context, requestID uint) (*site.Site, error) {
	var model models.SiteModel
	if err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&model).Error; err != nil {
		if std_errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("site not found", fmt.Sprintf("request_id=%d", requestID))
		}
		return nil, fmt.Errorf("failed to get site: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *SiteRepositoryImpl) Update(ctx context.Context, s *site.Site) error {
	model, err := r.mapper.ToModel(s)
	if err != nil {
		return fmt.Errorf("failed to map site entity: %w", err)
	}

	result := r.db.WithContext(ctx).Model(&models.SiteModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]interface{}{
			"custom_domain": model.CustomDomain,
			"status":        model.Status,
			"expiry_date":   model.ExpiryDate,
			"provision_log": model.ProvisionLog,
			"admin_notes":   model.AdminNotes,
			"version":       model.Version + 1,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update site: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		r.db.WithContext(ctx).Model(&models.SiteModel{}).
			Where("id = ?", model.ID).Count(&count)
		if count == 0 {
			return errors.NewNotFoundError("site not found", fmt.Sprintf("id=%d", model.ID))
		}
		return errors.NewConflictError("site was modified concurrently")
	}
	return nil
}

func (r *SiteRepositoryImpl) List(ctx context.Context, filter site.Filter) ([]*site.Site, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SiteModel{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.InstanceID != 0 {
		query = query.Where("instance_id = ?", filter.InstanceID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sites: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = constants.DefaultPage
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > constants.MaxPageSize {
		pageSize = constants.DefaultPageSize
	}

	var siteModels []*models.SiteModel
	if err := query.Order("creation_date DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&siteModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list sites: %w", err)
	}

	entities, err := r.mapper.ToEntities(siteModels)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

func (r *SiteRepositoryImpl) ExistsByRequestID(ctx context.Context, requestID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SiteModel{}).
		Where("request_id = ?", requestID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check site existence: %w", err)
	}
	return count > 0, nil
}

func (r *SiteRepositoryImpl) ExistsBySiteName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SiteModel{}).
		Where("site_name = ?", name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check site name: %w", err)
	}
	return count > 0, nil
}

func (r *SiteRepositoryImpl) ListByInstanceID(ctx context.Context, instanceID uint) ([]*site.Site, error) {
	var siteModels []*models.SiteModel
	if err := r.db.WithContext(ctx).
		Where("instance_id = ?", instanceID).
		Order("creation_date ASC").
		Find(&siteModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list sites by instance: %w", err)
	}
	return r.mapper.ToEntities(siteModels)
}

func (r *SiteRepositoryImpl) GetByCustomDomains(ctx context.Context, domains []string) (map[string]*site.Site, error) {
	result := make(map[string]*site.Site, len(domains))
	if len(domains) == 0 {
		return result, nil
	}

	var siteModels []*models.SiteModel
	if err := r.db.WithContext(ctx).
		Where("custom_domain IN ?", domains).
		Find(&siteModels).Error; err != nil {
		return nil, fmt.Errorf("failed to look up sites by domains: %w", err)
	}

	for _, model := range siteModels {
		entity, err := r.mapper.ToEntity(model)
		if err != nil {
			return nil, fmt.Errorf("failed to map site entity: %w", err)
		}
		result[model.CustomDomain] = entity
	}
	return result, nil
}

func (r *SiteRepositoryImpl) ListExpired(ctx context.Context, now time.Time) ([]*site.Site, error) {
	var siteModels []*models.SiteModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND expiry_date < ?", "Active", now).
		Find(&siteModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list expired sites: %w", err)
	}
	return r.mapper.ToEntities(siteModels)
}

func (r *SiteRepositoryImpl) ListStuckCreating(ctx context.Context, cutoff time.Time) ([]*site.Site, error) {
	var siteModels []*models.SiteModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND creation_date < ?", "Creating Site", cutoff).
		Find(&siteModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list stuck sites: %w", err)
	}
	return r.mapper.ToEntities(siteModels)
}
