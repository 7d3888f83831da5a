package cmd

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hartetoti/backend/internal/config"
	"github.com/hartetoti/backend/internal/db"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(migrateStepCmd("up", "Apply all pending migrations", db.RunMigrations))
	cmd.AddCommand(migrateStepCmd("down", "Roll back the latest migration", db.MigrateDown))
	cmd.AddCommand(migrateStatusCmd())
	return cmd
}

func migrateStepCmd(use, short string, step func(*sql.DB, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			return withDatabase(cfg, func(database *sql.DB) error {
				return step(database, cfg.DBDriver)
			})
		},
	}
}

func migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			return withDatabase(cfg, func(database *sql.DB) error {
				version, err := db.SchemaVersion(database, cfg.DBDriver)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (%s)\n", version, cfg.DBDriver)
				return nil
			})
		},
	}
}

func withDatabase(cfg *config.Config, fn func(*sql.DB) error) error {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer database.Close()

	return fn(database.DB)
}
