// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/identity"
)

// FailureReason explains a failed authentication attempt.
type FailureReason string

// Failure reasons.
const (
	ReasonInvalidCredentials FailureReason = "INVALID_CREDENTIALS"
	ReasonAccountLocked      FailureReason = "ACCOUNT_LOCKED"
)

// AuthProof is the outcome of a login attempt. It is either a
// SuccessfulAuthProof or a FailedAuthProof.
type AuthProof interface {
	// User returns the user the attempt was made against, if one was found.
	User() (*User, bool)
	// Succeeded reports whether the credentials were accepted.
	Succeeded() bool

	authProof()
}

// SuccessfulAuthProof asserts that a login attempt for a user succeeded.
type SuccessfulAuthProof struct {
	user *User
}

func newSuccessfulAuthProof(u *User) SuccessfulAuthProof {
	return SuccessfulAuthProof{user: u}
}

// User returns the authenticated user.
func (p SuccessfulAuthProof) User() (*User, bool) { return p.user, p.user != nil }

// Succeeded always reports true.
func (p SuccessfulAuthProof) Succeeded() bool { return true }

func (SuccessfulAuthProof) authProof() {}

// FailedAuthProof asserts that a login attempt failed. It references no
// user when the email was unknown.
type FailedAuthProof struct {
	user   *User
	reason FailureReason
}

func newFailedAuthProof(u *User, reason FailureReason) FailedAuthProof {
	return FailedAuthProof{user: u, reason: reason}
}

// User returns the user the attempt was made against, if one was found.
func (p FailedAuthProof) User() (*User, bool) { return p.user, p.user != nil }

// Succeeded always reports false.
func (p FailedAuthProof) Succeeded() bool { return false }

// Reason explains the failure.
func (p FailedAuthProof) Reason() FailureReason { return p.reason }

func (FailedAuthProof) authProof() {}

// RegistrationProof carries a validated email and password until
// UserFactory.Create consumes it.
type RegistrationProof struct {
	email    identity.Email
	password credential.Password
	consumed bool
}

func newRegistrationProof(email identity.Email, password credential.Password) *RegistrationProof {
	return &RegistrationProof{email: email, password: password}
}

// Email returns the validated address.
func (p *RegistrationProof) Email() identity.Email { return p.email }

// Consumed reports whether the proof has already produced a user.
func (p *RegistrationProof) Consumed() bool { return p.consumed }
