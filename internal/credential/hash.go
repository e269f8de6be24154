// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package credential

import (
	"log/slog"
	"strings"

	"github.com/samber/oops"

	"github.com/holomush/authcore/pkg/errutil"
)

// Hasher hashes passwords and recognizes its own output.
type Hasher interface {
	// Hash produces an encoded hash of raw.
	Hash(raw string) (string, error)

	// Verify checks raw against an encoded hash.
	// Returns (true, nil) on match, (false, nil) on mismatch, or error on invalid hash.
	Verify(raw, hashed string) (bool, error)

	// IsAlreadyHashed reports whether candidate is an encoded hash rather
	// than plaintext.
	IsAlreadyHashed(candidate string) bool
}

// PasswordHash is an encoded password hash.
type PasswordHash struct {
	encoded string
}

// NewPasswordHash hashes password with hasher.
func NewPasswordHash(password Password, hasher Hasher) (PasswordHash, error) {
	if hasher == nil {
		return PasswordHash{}, missingHasher()
	}
	if password.IsZero() {
		return PasswordHash{}, oops.Code("PASSWORD_EMPTY").
			In(errutil.DomainValidation).
			Errorf("password cannot be empty")
	}

	encoded, err := hasher.Hash(password.Plaintext())
	if err != nil {
		return PasswordHash{}, oops.Code("CREDENTIAL_HASH_FAILED").
			In(errutil.DomainIntegrity).
			Wrapf(err, "failed to generate a valid hash")
	}
	if strings.TrimSpace(encoded) == "" {
		return PasswordHash{}, oops.Code("CREDENTIAL_HASH_FAILED").
			In(errutil.DomainIntegrity).
			Errorf("failed to generate a valid hash")
	}
	return PasswordHash{encoded: encoded}, nil
}

// ReconstitutePasswordHash restores a stored hash. A stored value the
// hasher does not recognize as hashed is treated as corruption, never
// as a password.
func ReconstitutePasswordHash(stored string, hasher Hasher) (PasswordHash, error) {
	if hasher == nil {
		return PasswordHash{}, missingHasher()
	}
	if !hasher.IsAlreadyHashed(stored) {
		return PasswordHash{}, oops.Code("CREDENTIAL_CORRUPTED").
			In(errutil.DomainIntegrity).
			Errorf("possible data corruption or plain-text leak detected")
	}
	return PasswordHash{encoded: stored}, nil
}

func missingHasher() error {
	return oops.Code("HASHER_REQUIRED").
		In(errutil.DomainValidation).
		Errorf("password hasher is required")
}

// Matches verifies raw against the hash.
func (h PasswordHash) Matches(raw string, hasher Hasher) (bool, error) {
	if hasher == nil {
		return false, missingHasher()
	}
	ok, err := hasher.Verify(raw, h.encoded)
	if err != nil {
		return false, oops.Code("CREDENTIAL_VERIFY_FAILED").
			In(errutil.DomainIntegrity).
			Wrap(err)
	}
	return ok, nil
}

// Encoded returns the stored form.
func (h PasswordHash) Encoded() string {
	return h.encoded
}

// IsZero reports whether h was never assigned.
func (h PasswordHash) IsZero() bool {
	return h.encoded == ""
}

// LogValue keeps hashes out of logs.
func (h PasswordHash) LogValue() slog.Value {
	return slog.StringValue(redacted)
}
