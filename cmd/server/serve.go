package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garyjia/doc-workflow/internal/container"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		c, err := container.NewContainer(cfg, logger)
		if err != nil {
			return err
		}
		if err := c.Start(ctx); err != nil {
			logger.Error("Failed to start container", zap.Error(err))
			_ = c.Close()
			return err
		}

		logger.Info("Starting document workflow service",
			zap.String("address", cfg.Server.Addr()),
			zap.String("advance_mode", c.Workflow().Policy.Mode()))

		serveErr := c.Server().Start(ctx)
		if err := c.Close(); err != nil {
			logger.Error("Shutdown finished with errors", zap.Error(err))
		}
		return serveErr
	},
}
