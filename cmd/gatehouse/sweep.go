// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"context"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/gatehouse/gatehouse/internal/auth"
	authpg "github.com/gatehouse/gatehouse/internal/auth/postgres"
	"github.com/gatehouse/gatehouse/internal/config"
	"github.com/gatehouse/gatehouse/internal/store"
)

// Default timeout for sweep command.
const defaultSweepTimeout = 30 * time.Second

// NewSweepCmd creates the sweep subcommand.
func NewSweepCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete expired sessions in bulk",
		Long: `Removes all expired sessions from the database. The read path evicts
expired sessions lazily; sweep is the administrative counterpart for
sessions that are never fetched again.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSweep(cmd, timeout)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", defaultSweepTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSweep(cmd *cobra.Command, timeout time.Duration) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database URL is required (set DATABASE_URL or database_url in config)")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	sessions, err := auth.NewSessionService(
		authpg.NewSessionRepository(pool),
		authpg.NewUserRepository(pool),
		auth.WithSessionTTL(cfg.SessionTTL),
	)
	if err != nil {
		return oops.Code("SWEEP_FAILED").With("operation", "build session service").Wrap(err)
	}

	count, err := sessions.Sweep(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Removed %d expired sessions\n", count)
	return nil
}
