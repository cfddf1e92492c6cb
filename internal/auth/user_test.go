// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/pkg/errutil"
)

func TestRole_Valid(t *testing.T) {
	tests := []struct {
		role auth.Role
		want bool
	}{
		{auth.RoleAdmin, true},
		{auth.RoleCustomer, true},
		{auth.RoleEmployee, true},
		{auth.Role("superuser"), false},
		{auth.Role(""), false},
		{auth.Role("Admin"), false}, // roles are lowercase
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Valid())
		})
	}
}

func TestParseRole(t *testing.T) {
	t.Run("known roles parse", func(t *testing.T) {
		for _, s := range []string{"admin", "customer", "employee"} {
			role, err := auth.ParseRole(s)
			require.NoError(t, err)
			assert.Equal(t, s, role.String())
		}
	})

	t.Run("empty defaults to customer", func(t *testing.T) {
		role, err := auth.ParseRole("")
		require.NoError(t, err)
		assert.Equal(t, auth.RoleCustomer, role)
	})

	t.Run("unknown role fails", func(t *testing.T) {
		_, err := auth.ParseRole("superuser")
		errutil.AssertErrorKind(t, err, auth.ErrInvalidRole)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_ROLE")
	})
}

func TestUser_View(t *testing.T) {
	user := &auth.User{
		ID:           uuid.New(),
		Username:     "alice",
		PasswordHash: []byte("supersecretdigest-supersecretdig"),
		Salt:         []byte("supersecretsalt--supersecretsalt"),
		Role:         auth.RoleEmployee,
	}

	view := user.View()
	assert.Equal(t, user.ID.String(), view.ID)
	assert.Equal(t, "alice", view.Username)
	assert.Equal(t, "employee", view.Role)

	t.Run("json never leaks credential material", func(t *testing.T) {
		data, err := json.Marshal(view)
		require.NoError(t, err)

		var fields map[string]any
		require.NoError(t, json.Unmarshal(data, &fields))
		assert.NotContains(t, fields, "hash")
		assert.NotContains(t, fields, "salt")
		assert.NotContains(t, string(data), "supersecret")
	})
}
