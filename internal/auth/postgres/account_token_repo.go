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
	"github.com/holomush/authcore/internal/store"
	"github.com/holomush/authcore/internal/token"
	"github.com/holomush/authcore/pkg/errutil"
)

// AccountTokenRepository stores email verification and password reset
// tokens. Only the SHA-256 digest of a token value is written; restored
// tokens carry the digest as their value.
type AccountTokenRepository struct {
	pool   store.Pool
	tokens *token.Factory
}

// NewAccountTokenRepository creates an AccountTokenRepository.
func NewAccountTokenRepository(pool store.Pool, tokens *token.Factory) *AccountTokenRepository {
	return &AccountTokenRepository{pool: pool, tokens: tokens}
}

// SaveVerification inserts a verification token.
func (r *AccountTokenRepository) SaveVerification(ctx context.Context, t *token.VerificationToken) error {
	return r.insert(ctx, &t.Token)
}

// SavePasswordReset inserts a password reset token.
func (r *AccountTokenRepository) SavePasswordReset(ctx context.Context, t *token.PasswordResetToken) error {
	return r.insert(ctx, &t.Token)
}

func (r *AccountTokenRepository) insert(ctx context.Context, t *token.Token[string]) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO account_tokens (id, kind, user_id, value_digest, issued_at, expires_at, revoked)
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

// FindVerification looks a verification token up by its raw value.
func (r *AccountTokenRepository) FindVerification(ctx context.Context, rawValue string) (*token.VerificationToken, error) {
	row, err := r.find(ctx, token.KindVerification, rawValue)
	if err != nil {
		return nil, err
	}
	return r.tokens.ReconstituteVerification(row.id, row.digest, row.issuedAt, row.expiresAt, row.revoked, row.ownerID)
}

// FindPasswordReset looks a password reset token up by its raw value.
func (r *AccountTokenRepository) FindPasswordReset(ctx context.Context, rawValue string) (*token.PasswordResetToken, error) {
	row, err := r.find(ctx, token.KindPasswordReset, rawValue)
	if err != nil {
		return nil, err
	}
	return r.tokens.ReconstitutePasswordReset(row.id, row.digest, row.issuedAt, row.expiresAt, row.revoked, row.ownerID)
}

type tokenRow struct {
	id, ownerID, digest string
	issuedAt, expiresAt string
	revoked             bool
}

func (r *AccountTokenRepository) find(ctx context.Context, kind token.Kind, rawValue string) (tokenRow, error) {
	return queryToken(ctx, r.pool, `
		SELECT id::text, user_id::text, issued_at, expires_at, revoked
		FROM account_tokens
		WHERE value_digest = $1 AND kind = $2
	`, kind, rawValue)
}

// queryToken runs a single-row token lookup keyed by the digest of
// rawValue and kind. The query must select id, owner, issued_at,
// expires_at and revoked in that order.
func queryToken(ctx context.Context, pool store.Pool, query string, kind token.Kind, rawValue string) (tokenRow, error) {
	var (
		row                 tokenRow
		issuedAt, expiresAt time.Time
	)
	row.digest = token.Digest(rawValue)
	err := pool.QueryRow(ctx, query, row.digest, string(kind)).
		Scan(&row.id, &row.ownerID, &issuedAt, &expiresAt, &row.revoked)
	if errors.Is(err, pgx.ErrNoRows) {
		return tokenRow{}, oops.Code("TOKEN_NOT_FOUND").
			In(errutil.DomainValidation).
			With("kind", string(kind)).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return tokenRow{}, oops.Code("TOKEN_QUERY_FAILED").
			In(errutil.DomainPersistence).
			With("kind", string(kind)).
			Wrap(err)
	}
	row.issuedAt = clock.FormatTimestamp(issuedAt)
	row.expiresAt = clock.FormatTimestamp(expiresAt)
	return row, nil
}

// RevokeOutstanding revokes every unrevoked token of kind held by userID
// and returns how many were revoked.
func (r *AccountTokenRepository) RevokeOutstanding(ctx context.Context, userID identity.ID, kind token.Kind) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE account_tokens SET revoked = TRUE
		WHERE user_id = $1 AND kind = $2 AND NOT revoked
	`, userID.String(), string(kind))
	if err != nil {
		return 0, oops.Code("TOKEN_REVOKE_FAILED").
			In(errutil.DomainPersistence).
			With("user_id", userID.String()).
			With("kind", string(kind)).
			Wrap(err)
	}
	return tag.RowsAffected(), nil
}
