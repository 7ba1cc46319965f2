package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkrupp/homecase-accounts/internal/domain"
)

// NewUsersCmd creates the users subcommand.
func NewUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect stored accounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every stored account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runListUsers(cmd)
		},
	})

	return cmd
}

func runListUsers(cmd *cobra.Command) error {
	authSvc, err := openService(cmd)
	if err != nil {
		return err
	}
	defer authSvc.Close()

	users, err := authSvc.ListUsers(cmd.Context())
	if errors.Is(err, domain.ErrNoUsersFound) {
		cmd.Println("no users found")

		return nil
	} else if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	return writeUsers(cmd.OutOrStdout(), users)
}

func writeUsers(out io.Writer, users []*domain.User) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tADMIN\tCREATED")

	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", u.ID, u.Username, u.Email, u.IsAdmin, u.CreatedAt.Format(time.RFC3339))
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	return nil
}
