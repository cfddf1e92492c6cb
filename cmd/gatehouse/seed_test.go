// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/pkg/errutil"
)

func TestSeedAdminIDIsValid(t *testing.T) {
	// The well-known admin UUID used for idempotency
	id, err := uuid.Parse(seedAdminID)
	require.NoError(t, err, "seed admin ID should be a valid UUID")
	require.NotEqual(t, uuid.Nil, id, "parsed UUID should not be zero")
}

func TestRunSeed_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	configFile = ""

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(&bytes.Buffer{})

	cfg := &seedConfig{timeout: 30 * time.Second}
	err := runSeed(cmd, nil, cfg)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestRunSeed_InvalidDatabaseURL(t *testing.T) {
	// An invalid scheme forces an early failure before any retries
	t.Setenv("DATABASE_URL", "invalid://not-a-valid-url")
	configFile = ""

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(&bytes.Buffer{})

	cfg := &seedConfig{timeout: 30 * time.Second}
	err := runSeed(cmd, nil, cfg)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "DB_CONNECT_FAILED")
}

func TestNewSeedCmd(t *testing.T) {
	cmd := NewSeedCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "seed", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotNil(t, cmd.RunE)
}

func TestNewSeedCmd_UsernameFlag(t *testing.T) {
	cmd := NewSeedCmd()

	username, err := cmd.Flags().GetString("username")
	require.NoError(t, err)
	assert.Equal(t, "admin", username, "default username should be admin")
}

func TestNewSeedCmd_TimeoutFlag(t *testing.T) {
	cmd := NewSeedCmd()

	timeout, err := cmd.Flags().GetDuration("timeout")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout, "default timeout should be 30s")

	require.NoError(t, cmd.Flags().Set("timeout", "1m"))
	timeout, err = cmd.Flags().GetDuration("timeout")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, timeout, "timeout should be settable to 1m")
}

func TestNewSeedCmd_PasswordRequired(t *testing.T) {
	cmd := NewSeedCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err, "seed without --password should fail")
	assert.Contains(t, err.Error(), "password")
}
