// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package credential provides password, password-hash and one-time-code
// values, and the hashing port they are verified through.
package credential

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/oops"

	"github.com/holomush/authcore/pkg/errutil"
)

// Password length constraints, in characters.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

const redacted = "[REDACTED]"

// Password is a raw password that satisfied the complexity policy. It is
// never persisted and never rendered by fmt or slog.
type Password struct {
	plaintext string
}

// ParsePassword validates raw against the complexity policy: at least
// MinPasswordLength characters with an upper-case letter, a lower-case
// letter, a digit and a special character.
func ParsePassword(raw string) (Password, error) {
	if strings.TrimSpace(raw) == "" {
		return Password{}, oops.Code("PASSWORD_EMPTY").
			In(errutil.DomainValidation).
			Errorf("password cannot be empty")
	}

	length := utf8.RuneCountInString(raw)
	if length > MaxPasswordLength {
		return Password{}, oops.Code("PASSWORD_TOO_LONG").
			In(errutil.DomainValidation).
			With("max", MaxPasswordLength).
			Errorf("password must be at most %d characters", MaxPasswordLength)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range raw {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if length < MinPasswordLength || !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return Password{}, oops.Code("PASSWORD_WEAK").
			In(errutil.DomainValidation).
			With("min", MinPasswordLength).
			Errorf("password must be at least %d characters long and include upper-case, lower-case, digit and special characters", MinPasswordLength)
	}

	return Password{plaintext: raw}, nil
}

// Plaintext returns the raw password for hashing or verification.
func (p Password) Plaintext() string {
	return p.plaintext
}

// IsZero reports whether p was never assigned.
func (p Password) IsZero() bool {
	return p.plaintext == ""
}

// String hides the password from fmt.
func (p Password) String() string {
	return redacted
}

// GoString hides the password from %#v.
func (p Password) GoString() string {
	return redacted
}

// LogValue hides the password from slog.
func (p Password) LogValue() slog.Value {
	return slog.StringValue(redacted)
}
