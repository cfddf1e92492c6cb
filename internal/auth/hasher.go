// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"

	"github.com/samber/oops"
	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2-HMAC-SHA256 parameters. Changing any of these invalidates every
// stored credential, so they are fixed.
const (
	pbkdf2Iterations = 100_000
	pbkdf2SaltLen    = 32 // salt length in bytes
	pbkdf2KeyLen     = 32 // digest length in bytes
)

// PasswordHasher provides password hashing and verification.
type PasswordHasher interface {
	// Hash derives a digest of the password under a fresh random salt.
	Hash(password string) (hash, salt []byte, err error)

	// HashWithSalt derives a digest of the password under the given salt.
	// Deterministic: the same password and salt always yield the same digest.
	HashWithSalt(password string, salt []byte) []byte

	// Verify reports whether the password matches the stored digest.
	Verify(password string, salt, hash []byte) bool
}

// PBKDF2Hasher implements PasswordHasher using PBKDF2-HMAC-SHA256 with
// 100,000 iterations and 32-byte salts and digests.
type PBKDF2Hasher struct{}

// NewPBKDF2Hasher creates a new PBKDF2Hasher.
func NewPBKDF2Hasher() *PBKDF2Hasher {
	return &PBKDF2Hasher{}
}

// Hash derives a digest of the password under a fresh random salt.
func (h *PBKDF2Hasher) Hash(password string) (hash, salt []byte, err error) {
	salt = make([]byte, pbkdf2SaltLen)
	if _, err = rand.Read(salt); err != nil {
		return nil, nil, oops.Code("AUTH_SALT_FAILED").
			With("operation", "crypto/rand.Read").
			Wrap(err)
	}
	return h.HashWithSalt(password, salt), salt, nil
}

// HashWithSalt derives a digest of the password under the given salt.
func (h *PBKDF2Hasher) HashWithSalt(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
}

// Verify recomputes the digest under the stored salt and compares it in
// constant time against the stored hash.
func (h *PBKDF2Hasher) Verify(password string, salt, hash []byte) bool {
	computed := h.HashWithSalt(password, salt)
	return subtle.ConstantTimeCompare(computed, hash) == 1
}
