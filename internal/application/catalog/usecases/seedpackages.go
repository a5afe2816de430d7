package usecases

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/itsyosefali/saas-package-management/internal/domain/catalog"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

// Stock catalog installed on first boot. Existing packages with the same
// name are left untouched, so reseeding is safe.
//
//go:embed stock_packages.yaml
var stockPackagesYAML []byte

type seedPackage struct {
	Name          string  `yaml:"name"`
	Price         float64 `yaml:"price"`
	UsersLimit    int     `yaml:"users_limit"`
	InvoicesLimit int     `yaml:"invoices_limit"`
	ExpensesLimit int     `yaml:"expenses_limit"`
	Features      string  `yaml:"features"`
}

type seedCatalog struct {
	Packages []seedPackage `yaml:"packages"`
}

type SeedPackagesUseCase struct {
	packageRepo catalog.PackageRepository
	logger      logger.Interface
}

func NewSeedPackagesUseCase(packageRepo catalog.PackageRepository, logger logger.Interface) *SeedPackagesUseCase {
	return &SeedPackagesUseCase{
		packageRepo: packageRepo,
		logger:      logger,
	}
}

// Execute installs the stock catalog, skipping packages that already
// exist. Returns the number of packages created.
func (uc *SeedPackagesUseCase) Execute(ctx context.Context) (int, error) {
	var stock seedCatalog
	if err := yaml.Unmarshal(stockPackagesYAML, &stock); err != nil {
		return 0, fmt.Errorf("failed to parse stock catalog: %w", err)
	}

	created := 0
	for _, seed := range stock.Packages {
		exists, err := uc.packageRepo.ExistsByName(ctx, seed.Name)
		if err != nil {
			return created, err
		}
		if exists {
			uc.logger.Infow("package already exists, skipping", "name", seed.Name)
			continue
		}

		pkg, err := catalog.NewPackage(seed.Name, seed.Price, seed.UsersLimit, seed.InvoicesLimit, seed.ExpensesLimit, seed.Features)
		if err != nil {
			return created, err
		}
		if err := uc.packageRepo.Create(ctx, pkg); err != nil {
			return created, err
		}
		uc.logger.Infow("seeded package", "name", seed.Name, "id", pkg.ID())
		created++
	}
	return created, nil
}
