package repository

import (
	"context"
	std_errors "errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/itsyosefali/saas-package-management/internal/domain/catalog"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/persistence/mappers"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/persistence/models"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

// PackageRepositoryImpl implements the catalog.PackageRepository interface
type PackageRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PackageMapper
	logger logger.Interface
}

// NewPackageRepository creates a new package repository instance
func NewPackageRepository(db *gorm.DB, logger logger.Interface) catalog.PackageRepository {
	return &PackageRepositoryImpl{
		db:     db,
		mapper: mappers.NewPackageMapper(),
		logger: logger,
	}
}

func (r *PackageRepositoryImpl) Create(ctx context.Context, pkg *catalog.Package) error {
	model, err := r.mapper.ToModel(pkg)
	if err != nil {
		return fmt.Errorf("failed to map package entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateEntry(err) {
			return errors.NewConflictError("package with this name already exists")
		}
		r.logger.Errorw("failed to create package", "error", err)
		return fmt.Errorf("failed to create package: %w", err)
	}

	if err := pkg.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set package ID: %w", err)
	}

	r.logger.Infow("package created", "id", model.ID, "name", model.Name)
	return nil
}

func (r *PackageRepositoryImpl) GetByID(ctx context.Context, id uint) (*catalog.Package, error) {
	var model models.PackageModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if std_errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("package not found", fmt.Sprintf("id=%d", id))
		}
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *PackageRepositoryImpl) GetByName(ctx context.Context, name string) (*catalog.Package, error) {
	var model models.PackageModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if std_errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("package not found", fmt.Sprintf("name=%s", name))
		}
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *PackageRepositoryImpl) Update(ctx context.Context, pkg *catalog.Package) error {
	model, err := r.mapper.ToModel(pkg)
	if err != nil {
		return fmt.Errorf("failed to map package entity: %w", err)
	}

	result := r.db.WithContext(ctx).Model(&models.PackageModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":           model.Name,
			"price":          model.Price,
			"users_limit":    model.UsersLimit,
			"invoices_limit": model.InvoicesLimit,
			"expenses_limit": model.ExpensesLimit,
			"features":       model.Features,
			"is_active":      model.IsActive,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		if isDuplicateEntry(result.Error) {
			return errors.NewConflictError("package with this name already exists")
		}
		return fmt.Errorf("failed to update package: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("package not found", fmt.Sprintf("id=%d", model.ID))
	}
	return nil
}

func (r *PackageRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]*catalog.Package, error) {
	var packageModels []*models.PackageModel
	query := r.db.WithContext(ctx).Order("price ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&packageModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return r.mapper.ToEntities(packageModels)
}

func (r *PackageRepositoryImpl) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PackageModel{}).
		Where("name = ?", name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check package existence: %w", err)
	}
	return count > 0, nil
}

// isDuplicateEntry detects unique constraint violations across mysql and sqlite
func isDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
