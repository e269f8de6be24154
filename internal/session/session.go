// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package session implements the authenticated session aggregate.
package session

import (
	"time"

	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/clock"
	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/pkg/errutil"
)

// Session tracks a user's authenticated session. Expiry is evaluated
// lazily on each IsActive call.
type Session struct {
	id           identity.ID
	userID       identity.ID
	createdAt    time.Time
	lastActivity time.Time
	expiresAt    time.Time
	revoked      bool
	clock        clock.Clock
}

// Record is the raw storage form of a Session.
type Record struct {
	ID           string
	UserID       string
	CreatedAt    string
	LastActivity string
	ExpiresAt    string
	Revoked      bool
}

// Factory opens and restores sessions against a clock.
type Factory struct {
	clock clock.Clock
}

// NewFactory creates a Factory. A nil clock uses the system clock.
func NewFactory(c clock.Clock) *Factory {
	return &Factory{clock: clock.OrSystem(c)}
}

// New opens a session for userID that lasts until expiresAt.
func (f *Factory) New(userID identity.ID, expiresAt time.Time) (*Session, error) {
	if userID.IsZero() {
		return nil, oops.Code("SESSION_USER_REQUIRED").
			In(errutil.DomainValidation).
			Errorf("session requires a user")
	}
	now := f.clock.Now()
	if !expiresAt.After(now) {
		return nil, oops.Code("SESSION_EXPIRY_INVALID").
			In(errutil.DomainValidation).
			With("expires_at", expiresAt).
			Errorf("session expiry must be in the future")
	}
	return &Session{
		id:           identity.NewID(),
		userID:       userID,
		createdAt:    now,
		lastActivity: now,
		expiresAt:    expiresAt,
		clock:        f.clock,
	}, nil
}

// Reconstitute restores a stored session.
func (f *Factory) Reconstitute(rec Record) (*Session, error) {
	id, err := identity.ParseID(rec.ID)
	if err != nil {
		return nil, oops.With("field", "id").Wrap(err)
	}
	userID, err := identity.ParseID(rec.UserID)
	if err != nil {
		return nil, oops.With("field", "user_id").Wrap(err)
	}
	createdAt, err := clock.ParseTimestamp(rec.CreatedAt)
	if err != nil {
		return nil, oops.With("field", "created_at").Wrap(err)
	}
	lastActivity, err := clock.ParseTimestamp(rec.LastActivity)
	if err != nil {
		return nil, oops.With("field", "last_activity").Wrap(err)
	}
	expiresAt, err := clock.ParseTimestamp(rec.ExpiresAt)
	if err != nil {
		return nil, oops.With("field", "expires_at").Wrap(err)
	}
	return &Session{
		id:           id,
		userID:       userID,
		createdAt:    createdAt,
		lastActivity: lastActivity,
		expiresAt:    expiresAt,
		revoked:      rec.Revoked,
		clock:        f.clock,
	}, nil
}

// Record returns the storage form of s.
func (s *Session) Record() Record {
	return Record{
		ID:           s.id.String(),
		UserID:       s.userID.String(),
		CreatedAt:    clock.FormatTimestamp(s.createdAt),
		LastActivity: clock.FormatTimestamp(s.lastActivity),
		ExpiresAt:    clock.FormatTimestamp(s.expiresAt),
		Revoked:      s.revoked,
	}
}

// ID returns the session identity.
func (s *Session) ID() identity.ID { return s.id }

// UserID returns the owning user.
func (s *Session) UserID() identity.ID { return s.userID }

// CreatedAt returns when the session was opened.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// LastActivity returns the last heartbeat.
func (s *Session) LastActivity() time.Time { return s.lastActivity }

// ExpiresAt returns the current expiry.
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// IsRevoked reports whether the session was deactivated.
func (s *Session) IsRevoked() bool { return s.revoked }

// IsActive reports whether the session is unrevoked and unexpired.
func (s *Session) IsActive() bool {
	return !s.revoked && s.clock.Now().Before(s.expiresAt)
}

// Deactivate revokes the session. Deactivating twice is an error.
func (s *Session) Deactivate() error {
	if s.revoked {
		return oops.Code("SESSION_ALREADY_REVOKED").
			In(errutil.DomainLifecycle).
			With("session_id", s.id.String()).
			Errorf("cannot deactivate a session that is already deactivated")
	}
	s.revoked = true
	return nil
}

// UpdateLastActivity records a heartbeat at the current time. It does not
// check whether the session is active.
func (s *Session) UpdateLastActivity() {
	s.lastActivity = s.clock.Now()
}

// ExtendExpiry moves the expiry to a later instant, as a refresh does.
func (s *Session) ExtendExpiry(expiresAt time.Time) error {
	if s.revoked {
		return oops.Code("SESSION_ALREADY_REVOKED").
			In(errutil.DomainLifecycle).
			With("session_id", s.id.String()).
			Errorf("cannot extend a deactivated session")
	}
	if !expiresAt.After(s.expiresAt) {
		return oops.Code("SESSION_EXPIRY_INVALID").
			In(errutil.DomainValidation).
			With("session_id", s.id.String()).
			With("expires_at", expiresAt).
			Errorf("new expiry must be after the current expiry")
	}
	s.expiresAt = expiresAt
	return nil
}
