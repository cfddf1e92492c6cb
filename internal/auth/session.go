// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

// DefaultSessionTTL is the session lifetime applied when the caller does
// not supply an expiry.
const DefaultSessionTTL = 3 * time.Hour

// Session is a time-bounded login token bound to exactly one user. A user
// may hold any number of sessions.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Expire    time.Time
	CreatedAt time.Time
}

// NewSession creates a validated Session for the given user.
// Expire must be a non-zero absolute instant; callers resolve defaults
// before construction.
func NewSession(userID uuid.UUID, expire time.Time) (*Session, error) {
	if userID == uuid.Nil {
		return nil, oops.Code("SESSION_INVALID_USER").Errorf("user ID cannot be zero")
	}
	if expire.IsZero() {
		return nil, oops.Code("SESSION_INVALID_EXPIRY").Errorf("expiry time cannot be zero")
	}
	return &Session{
		ID:        uuid.New(),
		UserID:    userID,
		Expire:    expire,
		CreatedAt: time.Now(),
	}, nil
}

// Expired reports whether the session's expiry is strictly in the past.
func (s *Session) Expired() bool {
	return s.ExpiredAt(time.Now())
}

// ExpiredAt reports whether the session would be expired at the given
// instant. Useful for testing with deterministic time values.
func (s *Session) ExpiredAt(t time.Time) bool {
	return s.Expire.Before(t)
}

// SessionView is the external representation of a Session. Expire is
// epoch seconds; epoch conversion lives only here, not in the domain type.
type SessionView struct {
	ID     string   `json:"id"`
	User   UserView `json:"user"`
	Expire int64    `json:"expire"`
}

// SessionRepository manages session persistence.
type SessionRepository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// GetByID retrieves a session by ID. Returns ErrNotFound if absent.
	// Expiry is not checked here; that is the service's concern.
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)

	// GetByUser retrieves all persisted sessions for a user, newest first.
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*Session, error)

	// Delete removes a session. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// Evict removes a session inside its own transaction. Unlike Delete,
	// evicting an already-removed session is not an error: two callers
	// racing on the same expired id must both observe success.
	Evict(ctx context.Context, id uuid.UUID) error

	// DeleteExpired removes every expired session and returns the count.
	// Administrative bulk operation; the read path evicts lazily instead.
	DeleteExpired(ctx context.Context) (int64, error)
}
