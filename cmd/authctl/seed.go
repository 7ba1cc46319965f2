package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkrupp/homecase-accounts/internal/svc/authsvc"
)

var errNoSeedFile = errors.New("no seed file given")

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the accounts listed in a YAML seed file",
		Long: `Creates every account of the seed file that does not exist yet.
Accounts whose email or username is taken are skipped, so the command is idempotent.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path of the YAML seed file")

	return cmd
}

func runSeed(cmd *cobra.Command, file string) error {
	if file == "" {
		return errNoSeedFile
	}

	seed, err := authsvc.LoadSeedFile(file)
	if err != nil {
		return fmt.Errorf("load seed file: %w", err)
	}

	authSvc, err := openService(cmd)
	if err != nil {
		return err
	}
	defer authSvc.Close()

	created, err := authSvc.SeedUsers(cmd.Context(), seed.Users)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	cmd.Printf("created %d of %d users\n", created, len(seed.Users))

	return nil
}
