// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/gatehouse/gatehouse/internal/auth"
	authpg "github.com/gatehouse/gatehouse/internal/auth/postgres"
	"github.com/gatehouse/gatehouse/internal/config"
	"github.com/gatehouse/gatehouse/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedAdminID is the well-known identifier of the initial admin user.
// A fixed ID makes the seed idempotent: duplicate runs hit the unique
// constraint and are skipped.
const seedAdminID = "3e1f2a84-9c1d-4f6e-b2a7-5d8c41e0f9b3"

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	username string
	password string
	timeout  time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the initial admin user",
		Long: `Creates the initial admin user under a well-known identifier.
This command is idempotent - it will not create duplicates if run multiple times.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.username, "username", "admin", "username of the admin user")
	cmd.Flags().StringVar(&cfg.password, "password", "", "password of the admin user (required)")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	_ = cmd.MarkFlagRequired("password") //nolint:errcheck // flag is defined above

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, seedCfg *seedConfig) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database URL is required (set DATABASE_URL or database_url in config)")
	}

	// Use cmd.Context() to respect SIGINT/SIGTERM signals
	ctx, cancel := context.WithTimeout(cmd.Context(), seedCfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	users, err := auth.NewUserService(authpg.NewUserRepository(pool), auth.NewPBKDF2Hasher())
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "build user service").Wrap(err)
	}

	user, err := users.RegisterWithID(ctx, seedAdminID, seedCfg.username, seedCfg.password, auth.RoleAdmin)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			cmd.Println("Admin user already exists, skipping seed")
			return nil
		}
		return oops.Code("SEED_FAILED").
			With("operation", "register admin user").
			With("username", seedCfg.username).
			Wrap(err)
	}

	cmd.Printf("Created admin user %q (%s)\n", user.Username, user.ID)
	return nil
}
