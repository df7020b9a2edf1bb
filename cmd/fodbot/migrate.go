// Copyright (c) 2026 FoDBot. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/migration"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending ledger migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, closeLog, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer closeLog()

			return migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log)
		},
	}
}
