// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package auth implements the credential and session core of Gatehouse.
//
// # Domain Types
//
// Domain types (User, Session) should be created through their factories:
//   - UserService.NewUser / NewUserWithID - validated user entities with a
//     freshly salted password hash
//   - NewSession - a session bound to a user with a non-zero expiry
//
// Direct struct initialization bypasses validation and may create invalid
// state. Repository implementations receive pre-validated entities from
// these factories.
//
// # Services
//
// Service types coordinate domain operations against a repository:
//   - UserService - user creation, lookup, password verification
//   - SessionService - session creation, lookup with lazy eviction of
//     expired records
//
// Services are created with New*Service constructors that validate their
// dependencies.
//
// # Errors
//
// All failures carry one of the sentinel kinds in errors.go (ErrNotFound,
// ErrInvalidID, ErrInvalidRole, ErrUsernameTaken) and callers branch with
// errors.Is. An expired session surfaces as ErrNotFound on purpose: callers
// cannot distinguish absence from expiry.
package auth
