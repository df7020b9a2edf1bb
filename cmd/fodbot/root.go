// Copyright (c) 2026 FoDBot. All rights reserved.

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/config"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/constants"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/logging"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	envFile string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           constants.AppName,
		Short:         "FoDBot keeps Discord reaction roles in sync",
		Version:       constants.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file merged into the environment when present")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newDefinitionsCommand())

	return cmd
}

// bootstrap loads the configuration and builds the logger every
// config-driven command starts from.
func bootstrap(opts *rootOptions) (*config.Config, *slog.Logger, func(), error) {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return nil, nil, nil, err
	}

	log, closer := logging.New(constants.AppName, logging.Options{
		Development: cfg.IsDevelopment(),
		Debug:       cfg.Debug,
		File:        cfg.LogFile,
	})
	slog.SetDefault(log)

	return cfg, log, func() { _ = closer.Close() }, nil
}
