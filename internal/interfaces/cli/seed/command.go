package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/itsyosefali/saas-package-management/internal/application/catalog/usecases"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/config"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/database"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/repository"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Install the stock package catalog",
		Long:  `Install the stock package catalog. Packages that already exist are skipped, so the command is safe to re-run.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	packageRepo := repository.NewPackageRepository(database.Get(), log)
	seedUC := usecases.NewSeedPackagesUseCase(packageRepo, log)

	created, err := seedUC.Execute(context.Background())
	if err != nil {
		return fmt.Errorf("catalog seeding failed: %w", err)
	}

	fmt.Printf("catalog seeded, %d package(s) created\n", created)
	return nil
}
