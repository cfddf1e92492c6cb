// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/internal/auth"
)

func TestPBKDF2Hasher_Hash(t *testing.T) {
	hasher := auth.NewPBKDF2Hasher()

	t.Run("produces 32-byte digest and salt", func(t *testing.T) {
		hash, salt, err := hasher.Hash("hunter2")
		require.NoError(t, err)
		assert.Len(t, hash, 32)
		assert.Len(t, salt, 32)
	})

	t.Run("fresh salt per call", func(t *testing.T) {
		hash1, salt1, err := hasher.Hash("hunter2")
		require.NoError(t, err)
		hash2, salt2, err := hasher.Hash("hunter2")
		require.NoError(t, err)

		assert.NotEqual(t, salt1, salt2)
		assert.NotEqual(t, hash1, hash2)
	})
}

func TestPBKDF2Hasher_HashWithSalt(t *testing.T) {
	hasher := auth.NewPBKDF2Hasher()

	t.Run("deterministic for same password and salt", func(t *testing.T) {
		_, salt, err := hasher.Hash("hunter2")
		require.NoError(t, err)

		digest1 := hasher.HashWithSalt("hunter2", salt)
		digest2 := hasher.HashWithSalt("hunter2", salt)
		assert.Equal(t, digest1, digest2)
	})

	t.Run("different passwords yield different digests", func(t *testing.T) {
		_, salt, err := hasher.Hash("hunter2")
		require.NoError(t, err)

		assert.NotEqual(t,
			hasher.HashWithSalt("hunter2", salt),
			hasher.HashWithSalt("hunter3", salt),
		)
	})
}

func TestPBKDF2Hasher_Verify(t *testing.T) {
	hasher := auth.NewPBKDF2Hasher()

	t.Run("matches the original password", func(t *testing.T) {
		hash, salt, err := hasher.Hash("correct horse battery staple")
		require.NoError(t, err)

		assert.True(t, hasher.Verify("correct horse battery staple", salt, hash))
	})

	t.Run("rejects any other password", func(t *testing.T) {
		hash, salt, err := hasher.Hash("correct horse battery staple")
		require.NoError(t, err)

		assert.False(t, hasher.Verify("incorrect horse battery staple", salt, hash))
		assert.False(t, hasher.Verify("", salt, hash))
	})

	t.Run("rejects under the wrong salt", func(t *testing.T) {
		hash, _, err := hasher.Hash("hunter2")
		require.NoError(t, err)
		_, otherSalt, err := hasher.Hash("hunter2")
		require.NoError(t, err)

		assert.False(t, hasher.Verify("hunter2", otherSalt, hash))
	})
}
