// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/clock"
	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/internal/session"
	"github.com/holomush/authcore/internal/store"
	"github.com/holomush/authcore/pkg/errutil"
)

// SessionRepository stores sessions in PostgreSQL.
type SessionRepository struct {
	pool     store.Pool
	sessions *session.Factory
}

// NewSessionRepository creates a SessionRepository.
func NewSessionRepository(pool store.Pool, sessions *session.Factory) *SessionRepository {
	return &SessionRepository{pool: pool, sessions: sessions}
}

// Create inserts a new session.
func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (id, user_id, created_at, last_activity, expires_at, revoked)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		s.ID().String(),
		s.UserID().String(),
		s.CreatedAt(),
		s.LastActivity(),
		s.ExpiresAt(),
		s.IsRevoked(),
	)
	if err != nil {
		return oops.Code("SESSION_CREATE_FAILED").
			In(errutil.DomainPersistence).
			With("session_id", s.ID().String()).
			With("user_id", s.UserID().String()).
			Wrap(err)
	}
	return nil
}

// Get returns the session with id, or an error wrapping auth.ErrNotFound.
func (r *SessionRepository) Get(ctx context.Context, id identity.ID) (*session.Session, error) {
	var (
		rec                                 session.Record
		createdAt, lastActivity, expiresAt time.Time
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, user_id::text, created_at, last_activity, expires_at, revoked
		FROM sessions
		WHERE id = $1
	`, id.String()).Scan(&rec.ID, &rec.UserID, &createdAt, &lastActivity, &expiresAt, &rec.Revoked)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SESSION_NOT_FOUND").With("session_id", id.String()).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("SESSION_QUERY_FAILED").
			In(errutil.DomainPersistence).
			With("session_id", id.String()).
			Wrap(err)
	}
	rec.CreatedAt = clock.FormatTimestamp(createdAt)
	rec.LastActivity = clock.FormatTimestamp(lastActivity)
	rec.ExpiresAt = clock.FormatTimestamp(expiresAt)
	return r.sessions.Reconstitute(rec)
}

// Update writes activity, expiry and revocation state.
func (r *SessionRepository) Update(ctx context.Context, s *session.Session) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE sessions SET last_activity = $2, expires_at = $3, revoked = $4 WHERE id = $1
	`, s.ID().String(), s.LastActivity(), s.ExpiresAt(), s.IsRevoked())
	if err != nil {
		return oops.Code("SESSION_UPDATE_FAILED").
			In(errutil.DomainPersistence).
			With("session_id", s.ID().String()).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("SESSION_NOT_FOUND").With("session_id", s.ID().String()).Wrap(auth.ErrNotFound)
	}
	return nil
}
