package migrate

import (
	"fmt"

	"github.com/orca-network/orca/engine/infra/postgres"
	"github.com/orca-network/orca/engine/infra/repo"
	"github.com/orca-network/orca/pkg/config"
	"github.com/orca-network/orca/pkg/logger"
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the command that manages the Postgres schema.
func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			log := logger.FromContext(ctx)
			log.Info("Applying database migrations")
			if err := postgres.ApplyMigrations(ctx, repo.PostgresConfig(cfg).DSN()); err != nil {
				return err
			}
			log.Info("Database is up to date")
			return nil
		},
	}
	cmd.Flags().String("db-conn-string", "", "Postgres connection string")
	cmd.AddCommand(newListCommand())
	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the embedded migration files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			files, err := postgres.MigrationFiles()
			if err != nil {
				return err
			}
			for _, f := range files {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), f); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
