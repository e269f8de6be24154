// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"time"

	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/clock"
	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/internal/token"
	"github.com/holomush/authcore/pkg/errutil"
)

// PasswordResetCooldown is the minimum interval between password reset requests.
const PasswordResetCooldown = 15 * time.Minute

// User is the account aggregate.
type User struct {
	id                  identity.ID
	email               identity.Email
	passwordHash        credential.PasswordHash
	verified            bool
	failedLoginAttempts int
	createdAt           time.Time
	updatedAt           time.Time
	lastPasswordResetAt *time.Time
	clock               clock.Clock
}

// ID returns the user identity.
func (u *User) ID() identity.ID { return u.id }

// Email returns the normalized address.
func (u *User) Email() identity.Email { return u.email }

// PasswordHash returns the stored credential.
func (u *User) PasswordHash() credential.PasswordHash { return u.passwordHash }

// IsVerified reports whether the email address has been confirmed.
func (u *User) IsVerified() bool { return u.verified }

// FailedLoginAttempts returns the consecutive failure count.
func (u *User) FailedLoginAttempts() int { return u.failedLoginAttempts }

// CreatedAt returns when the account was registered.
func (u *User) CreatedAt() time.Time { return u.createdAt }

// UpdatedAt returns when the account last changed.
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// LastPasswordResetAt returns when a reset was last requested, or nil.
func (u *User) LastPasswordResetAt() *time.Time {
	if u.lastPasswordResetAt == nil {
		return nil
	}
	t := *u.lastPasswordResetAt
	return &t
}

// IsLocked reports whether the failure count reached LockoutThreshold.
func (u *User) IsLocked() bool {
	return u.failedLoginAttempts >= LockoutThreshold
}

// RecordFailedLogin counts a failed attempt. Only a FailedAuthProof issued
// for this user is accepted; anything else leaves the counter untouched.
func (u *User) RecordFailedLogin(proof AuthProof) error {
	failed, ok := proof.(FailedAuthProof)
	if !ok {
		return proofMismatch(u, "failed logins are recorded from a failure proof")
	}
	if failed.user != u {
		return proofMismatch(u, "proof was issued for another user")
	}
	u.failedLoginAttempts++
	u.touch()
	return nil
}

// ResetFailedLogins clears the failure count. Only a SuccessfulAuthProof
// issued for this user is accepted.
func (u *User) ResetFailedLogins(proof AuthProof) error {
	success, ok := proof.(SuccessfulAuthProof)
	if !ok {
		return proofMismatch(u, "failed logins are reset from a success proof")
	}
	if success.user != u {
		return proofMismatch(u, "proof was issued for another user")
	}
	u.failedLoginAttempts = 0
	u.touch()
	return nil
}

// CanRequestPasswordReset reports whether the reset cooldown has elapsed.
func (u *User) CanRequestPasswordReset() bool {
	if u.lastPasswordResetAt == nil {
		return true
	}
	return !u.clock.Now().Before(u.lastPasswordResetAt.Add(PasswordResetCooldown))
}

// RequestPasswordReset records a reset request. It returns false without
// changing anything while the cooldown is running.
func (u *User) RequestPasswordReset() bool {
	if !u.CanRequestPasswordReset() {
		return false
	}
	now := u.clock.Now()
	u.lastPasswordResetAt = &now
	u.updatedAt = now
	return true
}

// ConfirmEmail marks the address verified and consumes the token.
func (u *User) ConfirmEmail(t *token.VerificationToken) error {
	if t == nil || !t.ValidFor(u.id) {
		return u.invalidToken(token.KindVerification)
	}
	if err := t.Revoke(); err != nil {
		return err
	}
	u.verified = true
	u.touch()
	return nil
}

// ChangePassword replaces the credential and consumes the reset token.
// The failure count is left alone; only a successful login clears it.
func (u *User) ChangePassword(t *token.PasswordResetToken, password credential.Password, hasher credential.Hasher) error {
	if t == nil || !t.ValidFor(u.id) {
		return u.invalidToken(token.KindPasswordReset)
	}
	hash, err := credential.NewPasswordHash(password, hasher)
	if err != nil {
		return err
	}
	if err := t.Revoke(); err != nil {
		return err
	}
	u.passwordHash = hash
	u.touch()
	return nil
}

func (u *User) invalidToken(kind token.Kind) error {
	return oops.Code("TOKEN_NOT_VALID").
		In(errutil.DomainValidation).
		With("user_id", u.id.String()).
		With("kind", string(kind)).
		Errorf("%s token is not valid for this user", kind)
}

func (u *User) touch() {
	u.updatedAt = u.clock.Now()
}
