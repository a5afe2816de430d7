package token

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/itsyosefali/saas-package-management/internal/infrastructure/auth"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/config"
	"github.com/itsyosefali/saas-package-management/internal/shared/authorization"
)

var (
	env     string
	subject string
	role    string
)

// NewCommand issues an access token for an operator. Tokens are the only
// way to reach privileged routes; there is no interactive login.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token",
		Long:  `Issue a signed access token for the given subject and role. The token is printed to stdout.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Subject identifier for the token (required)")
	cmd.Flags().StringVarP(&role, "role", "r", "viewer", "Role to embed (admin, operator, viewer)")
	cmd.MarkFlagRequired("subject")

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

	userRole := authorization.UserRole(role)
	if !userRole.IsValid() {
		return fmt.Errorf("invalid role %q, expected admin, operator or viewer", role)
	}

	jwtService := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	signed, err := jwtService.Generate(subject, userRole)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	fmt.Println(signed)
	return nil
}
