package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hartetoti/backend/internal/app"
	"github.com/hartetoti/backend/internal/config"
	"github.com/hartetoti/backend/internal/model"
)

// PromoteCmd is the only way to create an admin.
func PromoteCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "promote <email>",
		Short: "Change the role of an existing account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(config.Load())
			if err != nil {
				return err
			}
			defer a.Close()

			profile, err := a.AuthService.SetRole(cmd.Context(), args[0], role)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", profile.Email, profile.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", model.RoleAdmin, "role to assign (user or admin)")
	return cmd
}
