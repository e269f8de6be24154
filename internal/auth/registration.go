// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"
	"log/slog"

	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/pkg/errutil"
)

// RegistrationValidator decides whether an email and password may register.
type RegistrationValidator struct {
	users  UserRepository
	logger *slog.Logger
}

// NewRegistrationValidator creates a RegistrationValidator. A nil logger
// uses slog.Default.
func NewRegistrationValidator(users UserRepository, logger *slog.Logger) (*RegistrationValidator, error) {
	if users == nil {
		return nil, missingDependency("user repository")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistrationValidator{users: users, logger: logger}, nil
}

// ValidateForRegistration checks the email structure, password policy,
// similarity and uniqueness, and returns a proof for UserFactory.Create.
// Hashing happens in the factory, not here.
func (v *RegistrationValidator) ValidateForRegistration(ctx context.Context, rawEmail, rawPassword string) (*RegistrationProof, error) {
	email, err := identity.ParseEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	password, err := credential.ParsePassword(rawPassword)
	if err != nil {
		return nil, err
	}
	if err := checkSimilarity(email, rawPassword); err != nil {
		return nil, err
	}

	exists, err := v.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, oops.Code("REGISTRATION_LOOKUP_FAILED").
			With("operation", "check email exists").
			Wrap(err)
	}
	if exists {
		v.logger.DebugContext(ctx, "registration rejected", "reason", "email_taken")
		return nil, oops.Code("EMAIL_ALREADY_EXISTS").
			In(errutil.DomainConflict).
			Errorf("email already exists")
	}

	return newRegistrationProof(email, password), nil
}
