// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"

	"github.com/holomush/authcore/internal/identity"
)

// UserRepository is the lookup port the validators consult.
type UserRepository interface {
	// FindByEmail retrieves a user by normalized email.
	// Returns ErrNotFound if no user has the given email.
	FindByEmail(ctx context.Context, email identity.Email) (*User, error)

	// ExistsByEmail reports whether a user has the given email.
	ExistsByEmail(ctx context.Context, email identity.Email) (bool, error)
}
