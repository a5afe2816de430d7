package usecases

import (
	"context"

	"github.com/itsyosefali/saas-package-management/internal/domain/catalog"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

type CreatePackageCommand struct {
	Name          string
	Price         float64
	UsersLimit    int
	InvoicesLimit int
	ExpensesLimit int
	Features      string
}

type CreatePackageResult struct {
	PackageID uint
	Name      string
	Price     float64
	IsActive  bool
}

type CreatePackageUseCase struct {
	packageRepo catalog.PackageRepository
	logger      logger.Interface
}

func NewCreatePackageUseCase(packageRepo catalog.PackageRepository, logger logger.Interface) *CreatePackageUseCase {
	return &CreatePackageUseCase{
		packageRepo: packageRepo,
		logger:      logger,
	}
}

func (uc *CreatePackageUseCase) Execute(ctx context.Context, cmd CreatePackageCommand) (*CreatePackageResult, error) {
	uc.logger.Infow("executing create package use case", "name", cmd.Name)

	exists, err := uc.packageRepo.ExistsByName(ctx, cmd.Name)
	if err != nil {
		uc.logger.Errorw("failed to check package name uniqueness", "name", cmd.Name, "error", err)
		return nil, err
	}
	if exists {
		return nil, errors.NewConflictError("package with this name already exists")
	}

	pkg, err := catalog.NewPackage(cmd.Name, cmd.Price, cmd.UsersLimit, cmd.InvoicesLimit, cmd.ExpensesLimit, cmd.Features)
	if err != nil {
		uc.logger.Errorw("invalid create package command", "error", err)
		return nil, err
	}

	if err := uc.packageRepo.Create(ctx, pkg); err != nil {
		uc.logger.Errorw("failed to create package", "name", cmd.Name, "error", err)
		return nil, err
	}

	uc.logger.Infow("package created", "id", pkg.ID(), "name", pkg.Name())

	return &CreatePackageResult{
		PackageID: pkg.ID(),
		Name:      pkg.Name(),
		Price:     pkg.Price(),
		IsActive:  pkg.IsActive(),
	}, nil
}
