package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
	"github.com/itsyosefali/saas-package-management/internal/shared/services/markdown"
)

func TestCreatePackageUseCase_Execute(t *testing.T) {
	repo := newMemPackageRepo()
	uc := NewCreatePackageUseCase(repo, logger.NewLogger())

	result, err := uc.Execute(context.Background(), CreatePackageCommand{
		Name:          "Starter",
		Price:         50.0,
		UsersLimit:    3,
		InvoicesLimit: 100,
		ExpensesLimit: 50,
		Features:      "- Up to 3 users",
	})
	require.NoError(t, err)

	assert.NotZero(t, result.PackageID)
	assert.Equal(t, "Starter", result.Name)
	assert.True(t, result.IsActive)
}

func TestCreatePackageUseCase_DuplicateName(t *testing.T) {
	repo := newMemPackageRepo()
	uc := NewCreatePackageUseCase(repo, logger.NewLogger())

	_, err := uc.Execute(context.Background(), CreatePackageCommand{Name: "Starter", Price: 50.0})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), CreatePackageCommand{Name: "Starter", Price: 60.0})
	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))
}

func TestSeedPackagesUseCase_InstallsStockCatalog(t *testing.T) {
	repo := newMemPackageRepo()
	uc := NewSeedPackagesUseCase(repo, logger.NewLogger())

	created, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, created)

	standard, err := repo.GetByName(context.Background(), "Standard")
	require.NoError(t, err)
	assert.Equal(t, 100.0, standard.Price())
	assert.Equal(t, 10, standard.UsersLimit())
	assert.Equal(t, 1000, standard.InvoicesLimit())
	assert.Equal(t, 500, standard.ExpensesLimit())

	ultimate, err := repo.GetByName(context.Background(), "Ultimate")
	require.NoError(t, err)
	assert.Equal(t, 500.0, ultimate.Price())
	assert.Equal(t, 1000, ultimate.UsersLimit())
}

func TestSeedPackagesUseCase_ReseedSkipsExisting(t *testing.T) {
	repo := newMemPackageRepo()
	uc := NewSeedPackagesUseCase(repo, logger.NewLogger())

	_, err := uc.Execute(context.Background())
	require.NoError(t, err)

	created, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	all, err := repo.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestListPackagesUseCase_RendersFeatures(t *testing.T) {
	repo := newMemPackageRepo()
	_, err := NewSeedPackagesUseCase(repo, logger.NewLogger()).Execute(context.Background())
	require.NoError(t, err)

	uc := NewListPackagesUseCase(repo, markdown.NewService(), logger.NewLogger())

	dtos, err := uc.Execute(context.Background(), ListPackagesQuery{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, dtos, 5)

	for _, dto := range dtos {
		assert.NotEmpty(t, dto.Features)
		assert.Contains(t, dto.FeaturesHTML, "<li>")
		assert.NotContains(t, dto.FeaturesHTML, "<script")
	}
}

func TestListPackagesUseCase_ActiveOnlyFilters(t *testing.T) {
	repo := newMemPackageRepo()
	createUC := NewCreatePackageUseCase(repo, logger.NewLogger())

	active, err := createUC.Execute(context.Background(), CreatePackageCommand{Name: "Active", Price: 10})
	require.NoError(t, err)
	retired, err := createUC.Execute(context.Background(), CreatePackageCommand{Name: "Retired", Price: 10})
	require.NoError(t, err)

	updateUC := NewUpdatePackageUseCase(repo, logger.NewLogger())
	inactive := false
	_, err = updateUC.Execute(context.Background(), UpdatePackageCommand{PackageID: retired.PackageID, IsActive: &inactive})
	require.NoError(t, err)

	listUC := NewListPackagesUseCase(repo, markdown.NewService(), logger.NewLogger())

	dtos, err := listUC.Execute(context.Background(), ListPackagesQuery{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, active.PackageID, dtos[0].ID)
}

func TestUpdatePackageUseCase_PartialUpdate(t *testing.T) {
	repo := newMemPackageRepo()
	created, err := NewCreatePackageUseCase(repo, logger.NewLogger()).Execute(context.Background(), CreatePackageCommand{
		Name:          "Starter",
		Price:         50.0,
		UsersLimit:    3,
		InvoicesLimit: 100,
		ExpensesLimit: 50,
	})
	require.NoError(t, err)

	newPrice := 75.0
	dto, err := NewUpdatePackageUseCase(repo, logger.NewLogger()).Execute(context.Background(), UpdatePackageCommand{
		PackageID: created.PackageID,
		Price:     &newPrice,
	})
	require.NoError(t, err)

	assert.Equal(t, 75.0, dto.Price)
	assert.Equal(t, 3, dto.UsersLimit)
	assert.Equal(t, 100, dto.InvoicesLimit)
}

func TestUpdatePackageUseCase_RejectsNegativePrice(t *testing.T) {
	repo := newMemPackageRepo()
	created, err := NewCreatePackageUseCase(repo, logger.NewLogger()).Execute(context.Background(), CreatePackageCommand{Name: "Starter", Price: 50.0})
	require.NoError(t, err)

	bad := -1.0
	_, err = NewUpdatePackageUseCase(repo, logger.NewLogger()).Execute(context.Background(), UpdatePackageCommand{
		PackageID: created.PackageID,
		Price:     &bad,
	})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}
