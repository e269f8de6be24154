// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/auth/postgres"
	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/internal/token"
	"github.com/holomush/authcore/pkg/errutil"
)

var sessionTokenColumns = []string{"id", "session_id", "issued_at", "expires_at", "revoked"}

func TestSessionTokenRepository_Save(t *testing.T) {
	ctx := context.Background()
	f := newFactories(t)
	sessionID := identity.NewID()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	access, err := f.tokens.NewAccess("raw-access", epoch.Add(15*time.Minute), sessionID)
	require.NoError(t, err)
	refresh, err := f.tokens.NewRefresh("raw-refresh", epoch.Add(24*time.Hour), sessionID)
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO session_tokens`).
		WithArgs(access.ID().String(), "access", sessionID.String(), token.Digest("raw-access"),
			pgxmock.AnyArg(), pgxmock.AnyArg(), false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO session_tokens`).
		WithArgs(refresh.ID().String(), "refresh", sessionID.String(), token.Digest("raw-refresh"),
			pgxmock.AnyArg(), pgxmock.AnyArg(), false).
		WillReturnError(errors.New("fk violation"))

	repo := postgres.NewSessionTokenRepository(mock, f.tokens)
	require.NoError(t, repo.SaveAccess(ctx, access))

	err = repo.SaveRefresh(ctx, refresh)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "TOKEN_SAVE_FAILED")
	errutil.AssertErrorContext(t, err, "kind", "refresh")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionTokenRepository_Find(t *testing.T) {
	ctx := context.Background()
	f := newFactories(t)
	sessionID := identity.NewID()
	tokenID := identity.NewID()

	t.Run("restores a refresh token owned by its session", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT .+ FROM session_tokens`).
			WithArgs(token.Digest("raw-refresh"), "refresh").
			WillReturnRows(pgxmock.NewRows(sessionTokenColumns).
				AddRow(tokenID.String(), sessionID.String(), epoch, epoch.Add(24*time.Hour), false))

		got, err := postgres.NewSessionTokenRepository(mock, f.tokens).FindRefresh(ctx, "raw-refresh")
		require.NoError(t, err)
		assert.Equal(t, tokenID, got.ID())
		assert.Equal(t, token.KindRefresh, got.Kind())
		assert.True(t, got.ValidFor(sessionID))
		assert.False(t, got.ValidFor(identity.NewID()))
	})

	t.Run("restores a revoked access token", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT .+ FROM session_tokens`).
			WithArgs(token.Digest("raw-access"), "access").
			WillReturnRows(pgxmock.NewRows(sessionTokenColumns).
				AddRow(tokenID.String(), sessionID.String(), epoch, epoch.Add(15*time.Minute), true))

		got, err := postgres.NewSessionTokenRepository(mock, f.tokens).FindAccess(ctx, "raw-access")
		require.NoError(t, err)
		assert.True(t, got.IsRevoked())
		assert.False(t, got.ValidFor(sessionID))
	})

	t.Run("missing", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT .+ FROM session_tokens`).
			WithArgs(token.Digest("nope"), "access").
			WillReturnError(pgx.ErrNoRows)

		_, err = postgres.NewSessionTokenRepository(mock, f.tokens).FindAccess(ctx, "nope")
		require.ErrorIs(t, err, auth.ErrNotFound)
		errutil.AssertErrorCode(t, err, "TOKEN_NOT_FOUND")
		errutil.AssertErrorDomain(t, err, errutil.DomainValidation)
	})
}

func TestSessionTokenRepository_Revoke(t *testing.T) {
	ctx := context.Background()
	f := newFactories(t)
	tokenID := identity.NewID()
	sessionID := identity.NewID()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`UPDATE session_tokens SET revoked = TRUE WHERE id`).
		WithArgs(tokenID.String()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE session_tokens SET revoked = TRUE WHERE id`).
		WithArgs(tokenID.String()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(`UPDATE session_tokens SET revoked = TRUE`).
		WithArgs(sessionID.String()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectExec(`UPDATE session_tokens SET revoked = TRUE`).
		WithArgs(sessionID.String()).
		WillReturnError(errors.New("deadlock detected"))

	repo := postgres.NewSessionTokenRepository(mock, f.tokens)
	require.NoError(t, repo.MarkRevoked(ctx, tokenID))

	err = repo.MarkRevoked(ctx, tokenID)
	require.ErrorIs(t, err, auth.ErrNotFound)
	errutil.AssertErrorCode(t, err, "TOKEN_NOT_FOUND")

	n, err := repo.RevokeBySession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = repo.RevokeBySession(ctx, sessionID)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "TOKEN_REVOKE_FAILED")
	errutil.AssertErrorContext(t, err, "session_id", sessionID.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
