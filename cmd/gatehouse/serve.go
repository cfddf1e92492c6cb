// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/gatehouse/gatehouse/internal/config"
	"github.com/gatehouse/gatehouse/internal/logging"
	"github.com/gatehouse/gatehouse/internal/observability"
	"github.com/gatehouse/gatehouse/internal/store"
)

// Timeouts for the serve lifecycle.
const (
	serveShutdownTimeout = 10 * time.Second
	readinessTimeout     = 2 * time.Second
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve metrics and health endpoints",
		Long: `Starts the observability server (Prometheus metrics and health probes).
Gatehouse owns no API routing; embedding applications call the auth
packages directly and this process only exposes operational endpoints.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database URL is required (set DATABASE_URL or database_url in config)")
	}

	logging.SetDefault("gatehouse", version, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	ready := func() bool {
		pingCtx, cancel := context.WithTimeout(context.Background(), readinessTimeout)
		defer cancel()
		return pool.Ping(pingCtx) == nil
	}

	server := observability.NewServer(cfg.MetricsAddr, ready)
	errCh, err := server.Start()
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case serveErr, ok := <-errCh:
		if ok && serveErr != nil {
			return serveErr
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
	defer cancel()
	return server.Stop(shutdownCtx)
}
