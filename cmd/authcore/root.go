// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/holomush/authcore/internal/config"
	"github.com/holomush/authcore/internal/logging"
	"github.com/holomush/authcore/internal/xdg"
)

const serviceName = "authcore"

// NewRootCmd creates the root command for the authcore CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(
		NewMigrateCmd(),
		NewHashPasswordCmd(),
		NewUserCmd(),
		NewConfigCmd(),
	)
}

func newRootCmd(subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authcore",
		Short: "authcore - account and login administration",
		Long: `authcore manages the authentication database: schema migrations,
password hashing, and registering or logging in accounts from the shell.

Settings come from defaults, a YAML file (--config, else
$XDG_CONFIG_HOME/authcore/config.yaml when present), AUTHCORE_* environment
variables and flags, in increasing precedence.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file path")
	flags.String("database-url", "", "PostgreSQL connection URL")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (json or text)")

	cmd.AddCommand(subcommands...)

	return cmd
}

// loadConfig merges configuration for cmd, honoring --config and any
// changed flag that names a config key. Without --config the XDG config
// file is read when present.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		found, err := xdg.FindConfigFile()
		if err != nil {
			return nil, err
		}
		path = found
	}

	opts := []config.Option{config.WithFlags(cmd.Flags())}
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	return config.NewLoader(opts...).Load()
}

// setup loads configuration and builds the logger. Logs go to stderr so
// stdout carries only command output.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	opts, err := cfg.LoggingOptions(serviceName, cmd.Root().Version)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.Setup(opts, cmd.ErrOrStderr()), nil
}
