// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/clock"
	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/pkg/errutil"
)

// UserRecord is the raw storage form of a User.
type UserRecord struct {
	ID                  string
	Email               string
	PasswordHash        string
	Verified            bool
	FailedLoginAttempts int
	CreatedAt           string
	UpdatedAt           string
	LastPasswordResetAt *string
}

// UserFactory registers and restores users.
type UserFactory struct {
	hasher credential.Hasher
	clock  clock.Clock
}

// NewUserFactory creates a UserFactory. A nil clock uses the system clock.
func NewUserFactory(hasher credential.Hasher, c clock.Clock) (*UserFactory, error) {
	if hasher == nil {
		return nil, missingDependency("password hasher")
	}
	return &UserFactory{hasher: hasher, clock: clock.OrSystem(c)}, nil
}

// Create registers a new user from a registration proof. The proof is
// consumed and cannot be used again.
func (f *UserFactory) Create(proof *RegistrationProof) (*User, error) {
	if proof == nil || proof.email.IsZero() {
		return nil, oops.Code("PROOF_MISMATCH").
			In(errutil.DomainProtocol).
			Errorf("proof mismatch: registration requires a validated registration proof")
	}
	if proof.consumed {
		return nil, oops.Code("PROOF_CONSUMED").
			In(errutil.DomainProtocol).
			Errorf("registration proof was already used")
	}

	hash, err := credential.NewPasswordHash(proof.password, f.hasher)
	if err != nil {
		return nil, err
	}
	proof.consumed = true
	proof.password = credential.Password{}

	now := f.clock.Now()
	return &User{
		id:           identity.NewID(),
		email:        proof.email,
		passwordHash: hash,
		createdAt:    now,
		updatedAt:    now,
		clock:        f.clock,
	}, nil
}

// Reconstitute restores a stored user. Malformed fields fail here and
// nowhere else.
func (f *UserFactory) Reconstitute(rec UserRecord) (*User, error) {
	id, err := identity.ParseID(rec.ID)
	if err != nil {
		return nil, oops.With("field", "id").Wrap(err)
	}
	email, err := identity.ParseEmail(rec.Email)
	if err != nil {
		return nil, oops.With("field", "email").With("user_id", id.String()).Wrap(err)
	}
	hash, err := credential.ReconstitutePasswordHash(rec.PasswordHash, f.hasher)
	if err != nil {
		return nil, oops.With("field", "password_hash").With("user_id", id.String()).Wrap(err)
	}
	if rec.FailedLoginAttempts < 0 {
		return nil, oops.Code("USER_RECORD_INVALID").
			In(errutil.DomainPersistence).
			With("field", "failed_login_attempts").
			With("user_id", id.String()).
			Errorf("failed login attempts cannot be negative")
	}
	createdAt, err := clock.ParseTimestamp(rec.CreatedAt)
	if err != nil {
		return nil, oops.With("field", "created_at").With("user_id", id.String()).Wrap(err)
	}
	updatedAt, err := clock.ParseTimestamp(rec.UpdatedAt)
	if err != nil {
		return nil, oops.With("field", "updated_at").With("user_id", id.String()).Wrap(err)
	}
	lastReset, err := clock.ParseOptionalTimestamp(rec.LastPasswordResetAt)
	if err != nil {
		return nil, oops.With("field", "last_password_reset_at").With("user_id", id.String()).Wrap(err)
	}

	return &User{
		id:                  id,
		email:               email,
		passwordHash:        hash,
		verified:            rec.Verified,
		failedLoginAttempts: rec.FailedLoginAttempts,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
		lastPasswordResetAt: lastReset,
		clock:               f.clock,
	}, nil
}

// Record returns the storage form of u.
func (u *User) Record() UserRecord {
	rec := UserRecord{
		ID:                  u.id.String(),
		Email:               u.email.String(),
		PasswordHash:        u.passwordHash.Encoded(),
		Verified:            u.verified,
		FailedLoginAttempts: u.failedLoginAttempts,
		CreatedAt:           clock.FormatTimestamp(u.createdAt),
		UpdatedAt:           clock.FormatTimestamp(u.updatedAt),
	}
	if u.lastPasswordResetAt != nil {
		s := clock.FormatTimestamp(*u.lastPasswordResetAt)
		rec.LastPasswordResetAt = &s
	}
	return rec
}
