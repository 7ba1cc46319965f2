package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkrupp/homecase-accounts/internal/repo/user"
	"github.com/mkrupp/homecase-accounts/internal/svc/authsvc"
)

const (
	appName = "homecase"
	svcName = "authsvc"
)

// NewRootCmd creates the root command of the account admin CLI.
// It reads the same environment as the authsvc server.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "authctl",
		Short:        "Administer the homecase account store",
		SilenceUsage: true,
	}

	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewUsersCmd())

	return cmd
}

// openService builds an AuthService from the environment without metrics.
func openService(cmd *cobra.Command) (*authsvc.AuthService, error) {
	cfg, err := authsvc.LoadConfig(cmd.Context(), appName, svcName)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	repoFactory, err := user.NewRepositoryFactory(cfg.User)
	if err != nil {
		return nil, fmt.Errorf("new repository factory: %w", err)
	}

	authSvc, err := authsvc.NewAuthService(cmd.Context(), repoFactory, cfg.Auth, nil)
	if err != nil {
		return nil, fmt.Errorf("new auth service: %w", err)
	}

	return authSvc, nil
}
