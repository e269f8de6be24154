// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres

import (
	"context"

	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/internal/store"
	"github.com/holomush/authcore/internal/token"
	"github.com/holomush/authcore/pkg/errutil"
)

// SessionTokenRepository stores the access and refresh tokens of sessions.
// Like AccountTokenRepository it keeps only value digests.
type SessionTokenRepository struct {
	pool   store.Pool
	tokens *token.Factory
}

// NewSessionTokenRepository creates a SessionTokenRepository.
func NewSessionTokenRepository(pool store.Pool, tokens *token.Factory) *SessionTokenRepository {
	return &SessionTokenRepository{pool: pool, tokens: tokens}
}

// SaveAccess inserts an access token.
func (r *SessionTokenRepository) SaveAccess(ctx context.Context, t *token.AccessToken) error {
	return r.insert(ctx, &t.Token)
}

// SaveRefresh inserts a refresh token.
func (r *SessionTokenRepository) SaveRefresh(ctx context.Context, t *token.RefreshToken) error {
	return r.insert(ctx, &t.Token)
}

func (r *SessionTokenRepository) insert(ctx context.Context, t *token.Token[string]) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO session_tokens (id, kind, session_id, value_digest, issued_at, expires_at, revoked)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		t.ID().String(),
		string(t.Kind()),
		t.OwnerID().String(),
		token.Digest(t.Value()),
		t.IssuedAt(),
		t.ExpiresAt(),
		t.IsRevoked(),
	)
	if err != nil {
		return oops.Code("TOKEN_SAVE_FAILED").
			In(errutil.DomainPersistence).
			With("token_id", t.ID().String()).
			With("kind", string(t.Kind())).
			Wrap(err)
	}
	return nil
}

const findSessionToken = `
		SELECT id::text, session_id::text, issued_at, expires_at, revoked
		FROM session_tokens
		WHERE value_digest = $1 AND kind = $2
	`

// FindAccess looks an access token up by its raw value.
func (r *SessionTokenRepository) FindAccess(ctx context.Context, rawValue string) (*token.AccessToken, error) {
	row, err := queryToken(ctx, r.pool, findSessionToken, token.KindAccess, rawValue)
	if err != nil {
		return nil, err
	}
	return r.tokens.ReconstituteAccess(row.id, row.digest, row.issuedAt, row.expiresAt, row.revoked, row.ownerID)
}

// FindRefresh looks a refresh token up by its raw value.
func (r *SessionTokenRepository) FindRefresh(ctx context.Context, rawValue string) (*token.RefreshToken, error) {
	row, err := queryToken(ctx, r.pool, findSessionToken, token.KindRefresh, rawValue)
	if err != nil {
		return nil, err
	}
	return r.tokens.ReconstituteRefresh(row.id, row.digest, row.issuedAt, row.expiresAt, row.revoked, row.ownerID)
}

// MarkRevoked stores the revocation of a single token.
func (r *SessionTokenRepository) MarkRevoked(ctx context.Context, id identity.ID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE session_tokens SET revoked = TRUE WHERE id = $1`, id.String())
	if err != nil {
		return oops.Code("TOKEN_REVOKE_FAILED").
			In(errutil.DomainPersistence).
			With("token_id", id.String()).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("TOKEN_NOT_FOUND").
			In(errutil.DomainValidation).
			With("token_id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// RevokeBySession revokes every unrevoked token of a session and returns
// how many were revoked.
func (r *SessionTokenRepository) RevokeBySession(ctx context.Context, sessionID identity.ID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE session_tokens SET revoked = TRUE
		WHERE session_id = $1 AND NOT revoked
	`, sessionID.String())
	if err != nil {
		return 0, oops.Code("TOKEN_REVOKE_FAILED").
			In(errutil.DomainPersistence).
			With("session_id", sessionID.String()).
			Wrap(err)
	}
	return tag.RowsAffected(), nil
}
