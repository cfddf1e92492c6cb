// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/gatehouse/gatehouse/internal/observability"
)

// UserService provides credential-store operations.
type UserService struct {
	users  UserRepository
	hasher PasswordHasher
}

// NewUserService creates a new UserService.
func NewUserService(users UserRepository, hasher PasswordHasher) (*UserService, error) {
	if users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	return &UserService{users: users, hasher: hasher}, nil
}

// NewUser builds an unsaved user entity with a fresh ID and a freshly
// salted password hash. The empty role defaults to RoleCustomer; a role
// outside the enum fails with ErrInvalidRole. Persistence is the caller's
// responsibility (see Register).
func (s *UserService) NewUser(username, password string, role Role) (*User, error) {
	return s.newUser(uuid.New(), username, password, role)
}

// NewUserWithID is the seeding/migration variant of NewUser: the caller
// supplies the identifier. A malformed id fails with ErrInvalidID.
func (s *UserService) NewUserWithID(id, username, password string, role Role) (*User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, oops.Code("AUTH_INVALID_ID").
			With("id", id).
			Wrap(ErrInvalidID)
	}
	return s.newUser(uid, username, password, role)
}

func (s *UserService) newUser(id uuid.UUID, username, password string, role Role) (*User, error) {
	if role == "" {
		role = RoleCustomer
	}
	if !role.Valid() {
		return nil, oops.Code("AUTH_INVALID_ROLE").
			With("role", string(role)).
			Wrap(ErrInvalidRole)
	}

	hash, salt, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_HASH_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	now := time.Now()
	return &User{
		ID:           id,
		Username:     username,
		PasswordHash: hash,
		Salt:         salt,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Register creates and persists a new user. A duplicate username surfaces
// as ErrUsernameTaken from the repository.
func (s *UserService) Register(ctx context.Context, username, password string, role Role) (*User, error) {
	user, err := s.NewUser(username, password, role)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	observability.RecordUserCreated(user.Role.String())
	return user, nil
}

// RegisterWithID creates and persists a new user under a caller-supplied
// identifier. Used for seeding and migration scenarios.
func (s *UserService) RegisterWithID(ctx context.Context, id, username, password string, role Role) (*User, error) {
	user, err := s.NewUserWithID(id, username, password, role)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	observability.RecordUserCreated(user.Role.String())
	return user, nil
}

// UsernameAvailable reports whether no stored user has the given username.
func (s *UserService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	count, err := s.users.CountByUsername(ctx, username)
	if err != nil {
		return false, oops.Code("USER_COUNT_FAILED").
			With("operation", "count by username").
			Wrap(err)
	}
	return count == 0, nil
}

// CheckPassword reports whether the password matches the user's stored
// credential. The comparison is constant-time.
func (s *UserService) CheckPassword(user *User, password string) bool {
	ok := s.hasher.Verify(password, user.Salt, user.PasswordHash)
	observability.RecordPasswordCheck(ok)
	return ok
}

// GetByID retrieves a user by its textual UUID. A malformed id fails with
// ErrInvalidID; an absent user with ErrNotFound.
func (s *UserService) GetByID(ctx context.Context, id string) (*User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, oops.Code("AUTH_INVALID_ID").
			With("id", id).
			Wrap(ErrInvalidID)
	}
	return s.users.GetByID(ctx, uid)
}

// GetByUsername retrieves a user by username. Returns ErrNotFound if absent.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.users.GetByUsername(ctx, username)
}

// GetByRole retrieves all users with the given role. An empty result is
// not an error.
func (s *UserService) GetByRole(ctx context.Context, role Role) ([]*User, error) {
	return s.users.GetByRole(ctx, role)
}
