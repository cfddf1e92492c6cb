// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

// Role is a closed enumeration of account roles.
type Role string

// The fixed set of roles. New users default to RoleCustomer.
const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCustomer, RoleEmployee:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole converts a raw string into a Role. The empty string maps to
// RoleCustomer; anything outside the enum fails with ErrInvalidRole.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleCustomer, nil
	}
	r := Role(s)
	if !r.Valid() {
		return "", oops.Code("AUTH_INVALID_ROLE").
			With("role", s).
			Wrap(ErrInvalidRole)
	}
	return r, nil
}

// User is a stored account identity. PasswordHash is the PBKDF2-HMAC-SHA256
// digest of the password and Salt; neither field ever leaves the store.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash []byte
	Salt         []byte
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserView is the external representation of a User. It deliberately
// carries no credential material.
type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// View returns the serializable representation of the user.
func (u *User) View() UserView {
	return UserView{
		ID:       u.ID.String(),
		Username: u.Username,
		Role:     u.Role.String(),
	}
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user. A duplicate username fails with
	// ErrUsernameTaken.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByUsername retrieves a user by exact (case-sensitive) username.
	// Returns ErrNotFound if absent.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByRole retrieves all users with the given role. An empty result
	// is not an error.
	GetByRole(ctx context.Context, role Role) ([]*User, error)

	// CountByUsername returns the number of users with the given username.
	CountByUsername(ctx context.Context, username string) (int64, error)

	// Delete removes a user. Administrative action only; returns
	// ErrNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error
}
