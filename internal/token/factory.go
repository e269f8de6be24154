// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package token

import (
	"time"

	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/clock"
	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/pkg/errutil"
)

// AccessToken authorizes requests within a session.
type AccessToken struct{ Token[string] }

// RefreshToken renews a session's access tokens.
type RefreshToken struct{ Token[string] }

// MFAToken carries the one-time code of a pending second-factor challenge.
type MFAToken struct{ Token[credential.OneTimeCode] }

// VerificationToken confirms ownership of a user's email address.
type VerificationToken struct{ Token[string] }

// PasswordResetToken authorizes a single password change.
type PasswordResetToken struct{ Token[string] }

// Factory issues and restores tokens against a clock.
type Factory struct {
	clock clock.Clock
}

// NewFactory creates a Factory. A nil clock uses the system clock.
func NewFactory(c clock.Clock) *Factory {
	return &Factory{clock: clock.OrSystem(c)}
}

// NewAccess issues an access token for a session.
func (f *Factory) NewAccess(value string, expiresAt time.Time, sessionID identity.ID) (*AccessToken, error) {
	t, err := issue(f, KindAccess, value, expiresAt, sessionID)
	if err != nil {
		return nil, err
	}
	return &AccessToken{t}, nil
}

// ReconstituteAccess restores a stored access token.
func (f *Factory) ReconstituteAccess(rawID, value, rawIssuedAt, rawExpiresAt string, revoked bool, rawSessionID string) (*AccessToken, error) {
	t, err := restore(f, KindAccess, rawID, value, rawIssuedAt, rawExpiresAt, revoked, rawSessionID)
	if err != nil {
		return nil, err
	}
	return &AccessToken{t}, nil
}

// NewRefresh issues a refresh token for a session.
func (f *Factory) NewRefresh(value string, expiresAt time.Time, sessionID identity.ID) (*RefreshToken, error) {
	t, err := issue(f, KindRefresh, value, expiresAt, sessionID)
	if err != nil {
		return nil, err
	}
	return &RefreshToken{t}, nil
}

// ReconstituteRefresh restores a stored refresh token.
func (f *Factory) ReconstituteRefresh(rawID, value, rawIssuedAt, rawExpiresAt string, revoked bool, rawSessionID string) (*RefreshToken, error) {
	t, err := restore(f, KindRefresh, rawID, value, rawIssuedAt, rawExpiresAt, revoked, rawSessionID)
	if err != nil {
		return nil, err
	}
	return &RefreshToken{t}, nil
}

// NewMFA issues an MFA challenge token for a user.
func (f *Factory) NewMFA(code credential.OneTimeCode, expiresAt time.Time, userID identity.ID) (*MFAToken, error) {
	t, err := issue(f, KindMFA, code, expiresAt, userID)
	if err != nil {
		return nil, err
	}
	return &MFAToken{t}, nil
}

// ReconstituteMFA restores a stored MFA token. The code is validated again.
func (f *Factory) ReconstituteMFA(rawID string, rawCode int, rawIssuedAt, rawExpiresAt string, revoked bool, rawUserID string) (*MFAToken, error) {
	code, err := credential.NewOneTimeCode(rawCode)
	if err != nil {
		return nil, err
	}
	t, err := restore(f, KindMFA, rawID, code, rawIssuedAt, rawExpiresAt, revoked, rawUserID)
	if err != nil {
		return nil, err
	}
	return &MFAToken{t}, nil
}

// Matches reports whether code equals the challenge code.
func (t *MFAToken) Matches(code credential.OneTimeCode) bool {
	return t.value.Equal(code)
}

// NewVerification issues an email verification token for a user.
func (f *Factory) NewVerification(value string, expiresAt time.Time, userID identity.ID) (*VerificationToken, error) {
	t, err := issue(f, KindVerification, value, expiresAt, userID)
	if err != nil {
		return nil, err
	}
	return &VerificationToken{t}, nil
}

// ReconstituteVerification restores a stored verification token.
func (f *Factory) ReconstituteVerification(rawID, value, rawIssuedAt, rawExpiresAt string, revoked bool, rawUserID string) (*VerificationToken, error) {
	t, err := restore(f, KindVerification, rawID, value, rawIssuedAt, rawExpiresAt, revoked, rawUserID)
	if err != nil {
		return nil, err
	}
	return &VerificationToken{t}, nil
}

// NewPasswordReset issues a password reset token for a user.
func (f *Factory) NewPasswordReset(value string, expiresAt time.Time, userID identity.ID) (*PasswordResetToken, error) {
	t, err := issue(f, KindPasswordReset, value, expiresAt, userID)
	if err != nil {
		return nil, err
	}
	return &PasswordResetToken{t}, nil
}

// ReconstitutePasswordReset restores a stored password reset token.
func (f *Factory) ReconstitutePasswordReset(rawID, value, rawIssuedAt, rawExpiresAt string, revoked bool, rawUserID string) (*PasswordResetToken, error) {
	t, err := restore(f, KindPasswordReset, rawID, value, rawIssuedAt, rawExpiresAt, revoked, rawUserID)
	if err != nil {
		return nil, err
	}
	return &PasswordResetToken{t}, nil
}

func issue[V Value](f *Factory, kind Kind, value V, expiresAt time.Time, owner identity.ID) (Token[V], error) {
	if err := checkValue(kind, value); err != nil {
		return Token[V]{}, err
	}
	if owner.IsZero() {
		return Token[V]{}, oops.Code("TOKEN_OWNER_REQUIRED").
			In(errutil.DomainValidation).
			With("kind", string(kind)).
			Errorf("%s token requires a %s owner", kind, kind.Owner())
	}

	now := f.clock.Now()
	if !expiresAt.After(now) {
		return Token[V]{}, oops.Code("TOKEN_EXPIRY_INVALID").
			In(errutil.DomainValidation).
			With("kind", string(kind)).
			With("expires_at", expiresAt).
			Errorf("token expiry must be in the future")
	}

	return Token[V]{
		id:        identity.NewID(),
		kind:      kind,
		value:     value,
		issuedAt:  now,
		expiresAt: expiresAt,
		owner:     owner,
		clock:     f.clock,
	}, nil
}

func restore[V Value](f *Factory, kind Kind, rawID string, value V, rawIssuedAt, rawExpiresAt string, revoked bool, rawOwnerID string) (Token[V], error) {
	id, err := identity.ParseID(rawID)
	if err != nil {
		return Token[V]{}, oops.With("field", "id").With("kind", string(kind)).Wrap(err)
	}
	owner, err := identity.ParseID(rawOwnerID)
	if err != nil {
		return Token[V]{}, oops.With("field", "owner_id").With("kind", string(kind)).Wrap(err)
	}
	issuedAt, err := clock.ParseTimestamp(rawIssuedAt)
	if err != nil {
		return Token[V]{}, oops.With("field", "issued_at").With("kind", string(kind)).Wrap(err)
	}
	expiresAt, err := clock.ParseTimestamp(rawExpiresAt)
	if err != nil {
		return Token[V]{}, oops.With("field", "expires_at").With("kind", string(kind)).Wrap(err)
	}
	if err := checkValue(kind, value); err != nil {
		return Token[V]{}, err
	}

	return Token[V]{
		id:        id,
		kind:      kind,
		value:     value,
		issuedAt:  issuedAt,
		expiresAt: expiresAt,
		revoked:   revoked,
		owner:     owner,
		clock:     f.clock,
	}, nil
}

func checkValue[V Value](kind Kind, value V) error {
	if s, ok := any(value).(string); ok && s == "" {
		return oops.Code("TOKEN_VALUE_INVALID").
			In(errutil.DomainValidation).
			With("kind", string(kind)).
			Errorf("token value cannot be empty")
	}
	return nil
}
