// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/pkg/errutil"
)

func TestNewLoginValidator(t *testing.T) {
	_, err := auth.NewLoginValidator(nil, &prefixHasher{}, nil)
	errutil.AssertErrorCode(t, err, "DEPENDENCY_REQUIRED")

	_, err = auth.NewLoginValidator(newMockUserRepo(), nil, nil)
	errutil.AssertErrorCode(t, err, "DEPENDENCY_REQUIRED")
}

func TestLoginValidator_ValidateForLogin(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fixture, *auth.User, *mockUserRepo, *auth.LoginValidator) {
		t.Helper()
		fx := newFixture(t)
		u := fx.newUser(t, testEmail)
		repo := newMockUserRepo(u)
		v, err := auth.NewLoginValidator(repo, fx.hasher, nil)
		require.NoError(t, err)
		return fx, u, repo, v
	}

	t.Run("malformed email fails before lookup", func(t *testing.T) {
		_, _, repo, v := setup(t)
		proof, err := v.ValidateForLogin(ctx, "invalid-email", testPassword)
		require.Error(t, err)
		assert.Nil(t, proof)
		errutil.AssertErrorCode(t, err, "EMAIL_INVALID")
		assert.Zero(t, repo.finds)
	})

	t.Run("password similar to email fails before lookup", func(t *testing.T) {
		_, _, repo, v := setup(t)
		_, err := v.ValidateForLogin(ctx, testEmail, "moHAmed123!.")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "PASSWORD_TOO_SIMILAR")
		errutil.AssertErrorDomain(t, err, errutil.DomainValidation)
		assert.Zero(t, repo.finds)
	})

	t.Run("unknown email yields anonymous failure", func(t *testing.T) {
		fx, _, _, v := setup(t)
		proof, err := v.ValidateForLogin(ctx, "nobody@example.com", testPassword)
		require.NoError(t, err)
		require.IsType(t, auth.FailedAuthProof{}, proof)
		assert.False(t, proof.Succeeded())
		_, found := proof.User()
		assert.False(t, found)
		assert.Equal(t, auth.ReasonInvalidCredentials, proof.(auth.FailedAuthProof).Reason())
		assert.Equal(t, 1, fx.hasher.verifyCalls, "dummy verification keeps timing uniform")
	})

	t.Run("locked account is rejected without checking the password", func(t *testing.T) {
		fx, u, _, v := setup(t)
		for range auth.LockoutThreshold {
			require.NoError(t, u.RecordFailedLogin(auth.NewFailedAuthProofForTest(u, auth.ReasonInvalidCredentials)))
		}

		proof, err := v.ValidateForLogin(ctx, testEmail, testPassword)
		require.NoError(t, err)
		require.IsType(t, auth.FailedAuthProof{}, proof)
		assert.Equal(t, auth.ReasonAccountLocked, proof.(auth.FailedAuthProof).Reason())
		got, found := proof.User()
		assert.True(t, found)
		assert.Same(t, u, got)
		assert.Zero(t, fx.hasher.verifyCalls)
	})

	t.Run("wrong password yields failure for the user", func(t *testing.T) {
		_, u, _, v := setup(t)
		proof, err := v.ValidateForLogin(ctx, testEmail, "WrongPass999!")
		require.NoError(t, err)
		require.IsType(t, auth.FailedAuthProof{}, proof)
		assert.Equal(t, auth.ReasonInvalidCredentials, proof.(auth.FailedAuthProof).Reason())
		got, _ := proof.User()
		assert.Same(t, u, got)
		assert.Zero(t, u.FailedLoginAttempts(), "validation does not mutate the user")

		require.NoError(t, u.RecordFailedLogin(proof))
		assert.Equal(t, 1, u.FailedLoginAttempts())
	})

	t.Run("login does not enforce registration password policy", func(t *testing.T) {
		_, _, _, v := setup(t)
		proof, err := v.ValidateForLogin(ctx, testEmail, "short")
		require.NoError(t, err)
		assert.False(t, proof.Succeeded())
	})

	t.Run("correct password yields success", func(t *testing.T) {
		_, u, _, v := setup(t)
		require.NoError(t, u.RecordFailedLogin(auth.NewFailedAuthProofForTest(u, auth.ReasonInvalidCredentials)))

		proof, err := v.ValidateForLogin(ctx, "  MOHAMED@gatech.edu ", testPassword)
		require.NoError(t, err)
		require.IsType(t, auth.SuccessfulAuthProof{}, proof)
		assert.True(t, proof.Succeeded())
		got, found := proof.User()
		assert.True(t, found)
		assert.Same(t, u, got)

		require.NoError(t, u.ResetFailedLogins(proof))
		assert.Zero(t, u.FailedLoginAttempts())
	})

	t.Run("repository failure is returned", func(t *testing.T) {
		_, _, repo, v := setup(t)
		dbErr := errors.New("connection refused")
		repo.err = dbErr

		proof, err := v.ValidateForLogin(ctx, testEmail, testPassword)
		require.Error(t, err)
		assert.Nil(t, proof)
		assert.ErrorIs(t, err, dbErr)
		errutil.AssertErrorCode(t, err, "LOGIN_LOOKUP_FAILED")
	})
}
