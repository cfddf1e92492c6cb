// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/gatehouse/gatehouse/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Gatehouse CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gatehouse",
		Short: "Gatehouse - authentication and session management",
		Long: `Gatehouse maintains user identities and time-bounded login sessions
backed by PostgreSQL. It answers two questions: is this credential
valid, and is this session still live.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// Fall back to the XDG config file when --config is not given
			if configFile == "" {
				configFile = xdg.DefaultConfigFile()
			}
		},
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewSweepCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewServeCmd())

	return cmd
}
