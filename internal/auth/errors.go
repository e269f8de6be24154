// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"errors"

	"github.com/samber/oops"

	"github.com/holomush/authcore/pkg/errutil"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

func proofMismatch(u *User, reason string) error {
	return oops.Code("PROOF_MISMATCH").
		In(errutil.DomainProtocol).
		With("user_id", u.id.String()).
		Errorf("proof mismatch: %s", reason)
}

func missingDependency(name string) error {
	return oops.Code("DEPENDENCY_REQUIRED").
		In(errutil.DomainProtocol).
		With("dependency", name).
		Errorf("%s is required", name)
}
