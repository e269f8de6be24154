// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package identity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/holomush/authcore/pkg/errutil"
)

// ID is a canonical UUID identifier.
type ID struct {
	value uuid.UUID
}

// NewID generates a random identifier.
func NewID() ID {
	return ID{value: uuid.New()}
}

// ParseID parses the canonical 36-character hyphenated form.
// Braced, URN and unhyphenated spellings are rejected.
func ParseID(raw string) (ID, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ID{}, oops.Code("UUID_INVALID").
			In(errutil.DomainValidation).
			Errorf("id cannot be empty")
	}
	parsed, err := uuid.Parse(value)
	if err != nil || len(value) != 36 {
		return ID{}, oops.Code("UUID_INVALID").
			In(errutil.DomainValidation).
			With("value", value).
			Errorf("invalid uuid format")
	}
	return ID{value: parsed}, nil
}

// MustParseID is ParseID for trusted literals. It panics on error.
func MustParseID(raw string) ID {
	id, err := ParseID(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the lowercase canonical form.
func (id ID) String() string {
	if id.IsZero() {
		return ""
	}
	return id.value.String()
}

// UUID returns the underlying uuid.
func (id ID) UUID() uuid.UUID {
	return id.value
}

// IsZero reports whether id was never assigned.
func (id ID) IsZero() bool {
	return id.value == uuid.Nil
}

// Equal reports whether both identifiers have the same canonical form.
func (id ID) Equal(other ID) bool {
	return id.value == other.value
}
