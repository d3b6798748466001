package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/garyjia/doc-workflow/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		db, err := database.New(cfg.DatabaseOptions(), logger)
		if err != nil {
			return err
		}
		defer db.Close()

		migrator := database.NewMigrator(db, logger)
		if err := migrator.Up(cmd.Context()); err != nil {
			return err
		}

		applied, err := migrator.AppliedVersions(cmd.Context())
		if err != nil {
			return err
		}
		versions := make([]int, 0, len(applied))
		for v := range applied {
			versions = append(versions, v)
		}
		sort.Ints(versions)

		fmt.Fprintf(cmd.OutOrStdout(), "database %s at versions %v\n", cfg.Database.Path, versions)
		return nil
	},
}
