package main

import (
	"errors"

	"github.com/spf13/cobra"

	"corpstats/internal/platform/config"
	"corpstats/internal/platform/postgres"
)

func newMigrateCmd(cfg *config.Server) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Database.URL == "" {
				return errors.New("DATABASE_URL is required")
			}
			db, err := postgres.Open(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()
			return postgres.Migrate(db)
		},
	}
}
