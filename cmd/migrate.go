package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	postgres_session "github.com/Mahesh1735/research-agent-core/session/postgres"
)

func migrateCMD(cfgPath *string) *cobra.Command {
	var migDir string
	var migDirDefault = "file://migrations"
	var steps int

	var migrate = &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Run database migrations for the postgres session store",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			if err := cfg.Storage.Postgres.Validate(); err != nil {
				return err
			}
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}
			if err := postgres_session.Migrate(migDir, cfg.Storage.Postgres.DSN(), direction, steps); err != nil {
				return err
			}
			logger.Info("migrations applied", zap.String("direction", direction), zap.Int("steps", steps))
			return nil
		},
	}
	migrate.Flags().StringVar(&migDir, "dir", migDirDefault, "migrations source (file://migrations)")
	migrate.Flags().IntVar(&steps, "steps", 0, "number of steps (0 = all)")
	return migrate
}
