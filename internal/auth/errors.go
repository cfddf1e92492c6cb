// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import "errors"

// Sentinel error kinds surfaced by the credential and session stores.
// Callers branch with errors.Is; oops wrappers add context on top.
var (
	// ErrNotFound is returned when a requested user or session does not
	// exist. Lazily-evicted expired sessions also surface as ErrNotFound.
	ErrNotFound = errors.New("not found")

	// ErrInvalidID is returned when an identifier is not a well-formed UUID.
	ErrInvalidID = errors.New("invalid id")

	// ErrInvalidRole is returned when a role is outside the fixed enum.
	ErrInvalidRole = errors.New("invalid role")

	// ErrUsernameTaken is returned when a username is already in use.
	ErrUsernameTaken = errors.New("username taken")
)
