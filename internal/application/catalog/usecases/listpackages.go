package usecases

import (
	"context"

	"github.com/itsyosefali/saas-package-management/internal/domain/catalog"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
	"github.com/itsyosefali/saas-package-management/internal/shared/services/markdown"
)

type ListPackagesQuery struct {
	ActiveOnly bool
}

type PackageDTO struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	UsersLimit    int     `json:"users_limit"`
	InvoicesLimit int     `json:"invoices_limit"`
	ExpensesLimit int     `json:"expenses_limit"`
	Features      string  `json:"features"`
	FeaturesHTML  string  `json:"features_html"`
	IsActive      bool    `json:"is_active"`
}

type ListPackagesUseCase struct {
	packageRepo catalog.PackageRepository
	markdown    markdown.Service
	logger      logger.Interface
}

func NewListPackagesUseCase(packageRepo catalog.PackageRepository, markdownSvc markdown.Service, logger logger.Interface) *ListPackagesUseCase {
	return &ListPackagesUseCase{
		packageRepo: packageRepo,
		markdown:    markdownSvc,
		logger:      logger,
	}
}

func (uc *ListPackagesUseCase) Execute(ctx context.Context, query ListPackagesQuery) ([]PackageDTO, error) {
	packages, err := uc.packageRepo.List(ctx, query.ActiveOnly)
	if err != nil {
		uc.logger.Errorw("failed to list packages", "error", err)
		return nil, err
	}

	dtos := make([]PackageDTO, 0, len(packages))
	for _, pkg := range packages {
		dto := PackageDTO{
			ID:            pkg.ID(),
			Name:          pkg.Name(),
			Price:         pkg.Price(),
			UsersLimit:    pkg.UsersLimit(),
			InvoicesLimit: pkg.InvoicesLimit(),
			ExpensesLimit: pkg.ExpensesLimit(),
			Features:      pkg.Features(),
			IsActive:      pkg.IsActive(),
		}
		if html, err := uc.markdown.ToHTMLSanitized(pkg.Features()); err == nil {
			dto.FeaturesHTML = html
		}
		dtos = append(dtos, dto)
	}
	return dtos, nil
}
