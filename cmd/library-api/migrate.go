package main

import (
	"github.com/spf13/cobra"

	"github.com/a2tp3/library-api/internal/infrastructure/db/postgres"
	"github.com/a2tp3/library-api/internal/pkg/config"
	"github.com/a2tp3/library-api/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending PostgreSQL migrations (POSTGRES_DSN)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := config.LoadMigrate(ctx)
			if err != nil {
				return err
			}
			log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "library-api", Env: cfg.Env})

			pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN, MaxConns: cfg.Postgres.MaxConns})
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.Migrate(ctx, pool); err != nil {
				return err
			}
			log.Info().Msg("migrations applied")
			return nil
		},
	}
}
