package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garyjia/doc-workflow/internal/container"
	"github.com/garyjia/doc-workflow/internal/seed"
	"github.com/garyjia/doc-workflow/pkg/utils"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create workflow definitions from a YAML file",
	Long: `Create the workflows and steps listed in a YAML file.
Workflows that already exist by name are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		file, err := seed.LoadFile(seedFile)
		if err != nil {
			return err
		}

		c, err := container.NewContainer(cfg, logger)
		if err != nil {
			return err
		}
		defer c.Close()
		if err := c.Start(cmd.Context()); err != nil {
			return err
		}

		seeder := seed.NewSeeder(c.Services().Workflow, c.Repositories().Workflow, c.TxManager(), utils.NewKVLogger(logger))
		report, err := seeder.Apply(cmd.Context(), file)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created %d workflows %v, skipped %d %v\n",
			len(report.Created), report.Created, len(report.Skipped), report.Skipped)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "configs/workflows.yaml", "workflow definitions to load")
}
