// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/identity"
)

// dummyPasswordHash is used when a user doesn't exist to prevent timing attacks.
// We still run password verification to make response time consistent.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// LoginValidator decides the outcome of a login attempt.
type LoginValidator struct {
	users  UserRepository
	hasher credential.Hasher
	logger *slog.Logger
}

// NewLoginValidator creates a LoginValidator. A nil logger uses slog.Default.
func NewLoginValidator(users UserRepository, hasher credential.Hasher, logger *slog.Logger) (*LoginValidator, error) {
	if users == nil {
		return nil, missingDependency("user repository")
	}
	if hasher == nil {
		return nil, missingDependency("password hasher")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginValidator{users: users, hasher: hasher, logger: logger}, nil
}

// ValidateForLogin checks raw credentials and returns a proof of the
// outcome. Gates run in order: email structure, password similarity,
// user lookup, lockout, credential. Structural failures and infrastructure
// errors are returned as errors; every other outcome is a proof.
//
// The user is not modified. Apply the proof with User.RecordFailedLogin or
// User.ResetFailedLogins.
func (v *LoginValidator) ValidateForLogin(ctx context.Context, rawEmail, rawPassword string) (AuthProof, error) {
	email, err := identity.ParseEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	if err := checkSimilarity(email, rawPassword); err != nil {
		return nil, err
	}

	user, err := v.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("LOGIN_LOOKUP_FAILED").
			With("operation", "find user by email").
			Wrap(err)
	}
	if user == nil {
		// Keep timing consistent with the credential gate.
		_, _ = v.hasher.Verify(rawPassword, dummyPasswordHash)
		v.logger.DebugContext(ctx, "login rejected", "reason", ReasonInvalidCredentials, "user_found", false)
		return newFailedAuthProof(nil, ReasonInvalidCredentials), nil
	}

	if user.IsLocked() {
		v.logger.InfoContext(ctx, "login rejected",
			"reason", ReasonAccountLocked,
			"user_id", user.ID().String(),
			"failed_attempts", user.FailedLoginAttempts())
		return newFailedAuthProof(user, ReasonAccountLocked), nil
	}

	ok, err := user.PasswordHash().Matches(rawPassword, v.hasher)
	if err != nil {
		return nil, oops.With("user_id", user.ID().String()).Wrap(err)
	}
	if !ok {
		v.logger.DebugContext(ctx, "login rejected",
			"reason", ReasonInvalidCredentials,
			"user_id", user.ID().String(),
			"failed_attempts", user.FailedLoginAttempts())
		return newFailedAuthProof(user, ReasonInvalidCredentials), nil
	}

	v.logger.DebugContext(ctx, "login accepted", "user_id", user.ID().String())
	return newSuccessfulAuthProof(user), nil
}
