// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package config loads Gatehouse configuration from a YAML file, command
// line flags, and the environment.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds the runtime configuration.
type Config struct {
	// DatabaseURL is the PostgreSQL connection string. Falls back to the
	// DATABASE_URL environment variable when unset.
	DatabaseURL string `koanf:"database_url"`

	// MetricsAddr is the listen address of the observability server.
	MetricsAddr string `koanf:"metrics_addr"`

	// LogFormat is "json" or "text".
	LogFormat string `koanf:"log_format"`

	// SessionTTL is the default session lifetime.
	SessionTTL time.Duration `koanf:"session_ttl"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		MetricsAddr: "127.0.0.1:9100",
		LogFormat:   "json",
		SessionTTL:  3 * time.Hour,
	}
}

// Load reads configuration in increasing precedence: defaults, the YAML
// file at path (if non-empty), then flags. DATABASE_URL from the
// environment backfills an unset database URL.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_INVALID").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_INVALID").
				With("operation", "load flags").
				Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").
			With("operation", "unmarshal config").
			Wrap(err)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	return &cfg, nil
}
