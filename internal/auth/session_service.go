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

// SessionService provides session-store operations.
type SessionService struct {
	sessions SessionRepository
	users    UserRepository
	ttl      time.Duration
}

// SessionServiceOption configures a SessionService.
type SessionServiceOption func(*SessionService)

// WithSessionTTL overrides the default session lifetime. Non-positive
// values are ignored.
func WithSessionTTL(ttl time.Duration) SessionServiceOption {
	return func(s *SessionService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessions SessionRepository, users UserRepository, opts ...SessionServiceOption) (*SessionService, error) {
	if sessions == nil {
		return nil, oops.Errorf("sessions repository is required")
	}
	if users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	s := &SessionService{
		sessions: sessions,
		users:    users,
		ttl:      DefaultSessionTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create resolves the username to a user, builds a session and persists it.
// An unknown username propagates ErrNotFound. A zero expire defaults to
// creation time plus the service TTL.
func (s *SessionService) Create(ctx context.Context, username string, expire time.Time) (*Session, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if expire.IsZero() {
		expire = time.Now().Add(s.ttl)
	}

	session, err := NewSession(user.ID, expire)
	if err != nil {
		return nil, oops.Code("SESSION_CREATE_FAILED").
			With("operation", "build session").
			With("username", username).
			Wrap(err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetByID retrieves a live session by its textual UUID. A malformed id
// fails with ErrInvalidID. If the stored session has expired it is evicted
// inside its own transaction and the call fails with ErrNotFound, exactly
// as if the session never existed. Two callers racing on the same expired
// id both observe ErrNotFound; the loser's delete is a no-op.
func (s *SessionService) GetByID(ctx context.Context, id string) (*Session, error) {
	sid, err := uuid.Parse(id)
	if err != nil {
		return nil, oops.Code("AUTH_INVALID_ID").
			With("id", id).
			Wrap(ErrInvalidID)
	}

	session, err := s.sessions.GetByID(ctx, sid)
	if err != nil {
		return nil, err
	}

	if session.Expired() {
		if err := s.sessions.Evict(ctx, sid); err != nil {
			return nil, oops.Code("SESSION_EVICT_FAILED").
				With("operation", "evict expired session").
				With("id", sid.String()).
				Wrap(err)
		}
		observability.RecordSessionEviction()
		return nil, oops.Code("SESSION_NOT_FOUND").
			With("id", sid.String()).
			Wrap(ErrNotFound)
	}

	return session, nil
}

// View resolves the session's user and returns the serializable
// representation. Credential material never appears in the view.
func (s *SessionService) View(ctx context.Context, session *Session) (SessionView, error) {
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return SessionView{}, oops.Code("SESSION_VIEW_FAILED").
			With("operation", "resolve session user").
			With("user_id", session.UserID.String()).
			Wrap(err)
	}
	return SessionView{
		ID:     session.ID.String(),
		User:   user.View(),
		Expire: session.Expire.Unix(),
	}, nil
}

// Sweep removes all expired sessions in bulk. This is the administrative
// counterpart to the read path's lazy eviction.
func (s *SessionService) Sweep(ctx context.Context) (int64, error) {
	count, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, oops.Code("SESSION_SWEEP_FAILED").
			With("operation", "delete expired sessions").
			Wrap(err)
	}
	observability.RecordSessionSweep(count)
	return count, nil
}
