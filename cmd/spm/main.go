package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/itsyosefali/saas-package-management/internal/interfaces/cli/migrate"
	"github.com/itsyosefali/saas-package-management/internal/interfaces/cli/seed"
	"github.com/itsyosefali/saas-package-management/internal/interfaces/cli/server"
	"github.com/itsyosefali/saas-package-management/internal/interfaces/cli/token"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "spm",
		Short: "SaaS package management control plane",
		Long:  `SPM provisions and manages hosted sites across a fleet of application instances, with an HTTP API, migration tools, and administrative commands.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		seed.NewCommand(),
		token.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
