package usecases

import (
	"context"

	"github.com/itsyosefali/saas-package-management/internal/domain/catalog"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

type UpdatePackageCommand struct {
	PackageID     uint
	Price         *float64
	UsersLimit    *int
	InvoicesLimit *int
	ExpensesLimit *int
	Features      *string
	IsActive      *bool
}

type UpdatePackageUseCase struct {
	packageRepo catalog.PackageRepository
	logger      logger.Interface
}

func NewUpdatePackageUseCase(packageRepo catalog.PackageRepository, logger logger.Interface) *UpdatePackageUseCase {
	return &UpdatePackageUseCase{
		packageRepo: packageRepo,
		logger:      logger,
	}
}

func (uc *UpdatePackageUseCase) Execute(ctx context.Context, cmd UpdatePackageCommand) (*PackageDTO, error) {
	uc.logger.Infow("executing update package use case", "id", cmd.PackageID)

	pkg, err := uc.packageRepo.GetByID(ctx, cmd.PackageID)
	if err != nil {
		return nil, err
	}

	price := pkg.Price()
	if cmd.Price != nil {
		price = *cmd.Price
	}
	usersLimit := pkg.UsersLimit()
	if cmd.UsersLimit != nil {
		usersLimit = *cmd.UsersLimit
	}
	invoicesLimit := pkg.InvoicesLimit()
	if cmd.InvoicesLimit != nil {
		invoicesLimit = *cmd.InvoicesLimit
	}
	expensesLimit := pkg.ExpensesLimit()
	if cmd.ExpensesLimit != nil {
		expensesLimit = *cmd.ExpensesLimit
	}
	features := pkg.Features()
	if cmd.Features != nil {
		features = *cmd.Features
	}

	if err := pkg.UpdateDetails(price, usersLimit, invoicesLimit, expensesLimit, features); err != nil {
		uc.logger.Errorw("invalid update package command", "id", cmd.PackageID, "error", err)
		return nil, err
	}

	if cmd.IsActive != nil {
		if *cmd.IsActive {
			pkg.Activate()
		} else {
			pkg.Deactivate()
		}
	}

	if err := uc.packageRepo.Update(ctx, pkg); err != nil {
		uc.logger.Errorw("failed to update package", "id", cmd.PackageID, "error", err)
		return nil, err
	}

	return &PackageDTO{
		ID:            pkg.ID(),
		Name:          pkg.Name(),
		Price:         pkg.Price(),
		UsersLimit:    pkg.UsersLimit(),
		InvoicesLimit: pkg.InvoicesLimit(),
		ExpensesLimit: pkg.ExpensesLimit(),
		Features:      pkg.Features(),
		IsActive:      pkg.IsActive(),
	}, nil
}
