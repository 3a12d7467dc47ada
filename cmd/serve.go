package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	srv "github.com/Mahesh1735/research-agent-core/internal/server"
	"github.com/Mahesh1735/research-agent-core/session"
)

func serveCMD(cfgPath *string) *cobra.Command {
	var serveAddr string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := buildApp(ctx, cfg, logger)
			if err != nil {
				logger.Error("startup failed", zap.Error(err))
				return err
			}
			defer a.Close()

			if pruner, ok := a.store.(session.Pruner); ok && cfg.Session.PruneSchedule != "" {
				j := &session.Janitor{Pruner: pruner, Schedule: cfg.Session.PruneSchedule, Logger: logger.Named("janitor")}
				go j.Run(ctx)
			}

			addr := cfg.Server.Address
			if serveAddr != "" {
				addr = serveAddr
			}
			e := srv.New(srv.Options{
				Turns:          a.orch,
				States:         a.store,
				Logger:         logger.Named("http"),
				Gatherer:       a.registry,
				JWTSecret:      []byte(cfg.Server.JWTSecret),
				PasswordHash:   []byte(cfg.Server.PasswordHash),
				SecureCookies:  !cfg.General.Debug,
				AllowedOrigins: cfg.Server.AllowedOrigins,
			})
			return srv.Run(ctx, e, addr, logger)
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.address)")
	return serve
}
