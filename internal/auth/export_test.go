// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/identity"
)

// Proof constructors for tests in package auth_test.

func NewSuccessfulAuthProofForTest(u *User) SuccessfulAuthProof {
	return newSuccessfulAuthProof(u)
}

func NewFailedAuthProofForTest(u *User, reason FailureReason) FailedAuthProof {
	return newFailedAuthProof(u, reason)
}

func NewRegistrationProofForTest(email identity.Email, password credential.Password) *RegistrationProof {
	return newRegistrationProof(email, password)
}
