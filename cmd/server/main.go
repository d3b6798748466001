package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garyjia/doc-workflow/internal/config"
	"github.com/garyjia/doc-workflow/pkg/utils"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "doc-workflow",
	Short: "Document approval workflow service",
	Long: `doc-workflow runs the document approval workflow API.

Examples:
  # Apply database migrations
  doc-workflow migrate

  # Load workflow definitions
  doc-workflow seed --file configs/workflows.yaml

  # Start the HTTP API
  doc-workflow serve`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "path to the YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the logger shared by every command
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(cfg.LoggerOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}
