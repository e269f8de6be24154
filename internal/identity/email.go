// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package identity

import (
	"regexp"
	"strings"

	"github.com/samber/oops"

	"github.com/holomush/authcore/pkg/errutil"
)

// MaxEmailLength is the longest address accepted, per RFC 5321.
const MaxEmailLength = 254

var (
	// localPartRegex matches dot-atom local parts: no leading, trailing or doubled dots.
	localPartRegex = regexp.MustCompile("^[a-z0-9!#$%&'*+/=?^_`{|}~-]+(\\.[a-z0-9!#$%&'*+/=?^_`{|}~-]+)*$")

	// domainRegex matches dot-separated DNS labels ending in an alphabetic TLD.
	domainRegex = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}$`)
)

// Email is a normalized email address.
type Email struct {
	value string
}

// ParseEmail trims and lowercases raw, then validates its structure.
func ParseEmail(raw string) (Email, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return Email{}, invalidEmail(value)
	}
	if len(value) > MaxEmailLength {
		return Email{}, invalidEmail(value)
	}

	local, domain, found := strings.Cut(value, "@")
	if !found || strings.Contains(domain, "@") {
		return Email{}, invalidEmail(value)
	}
	if !localPartRegex.MatchString(local) || !domainRegex.MatchString(domain) {
		return Email{}, invalidEmail(value)
	}
	return Email{value: value}, nil
}

func invalidEmail(value string) error {
	return oops.Code("EMAIL_INVALID").
		In(errutil.DomainValidation).
		With("length", len(value)).
		Errorf("invalid email format")
}

// String returns the normalized address.
func (e Email) String() string {
	return e.value
}

// LocalPart returns the portion before the "@".
func (e Email) LocalPart() string {
	local, _, _ := strings.Cut(e.value, "@")
	return local
}

// Domain returns the portion after the "@".
func (e Email) Domain() string {
	_, domain, _ := strings.Cut(e.value, "@")
	return domain
}

// IsZero reports whether e was never assigned.
func (e Email) IsZero() bool {
	return e.value == ""
}

// Equal reports whether both addresses normalize to the same form.
func (e Email) Equal(other Email) bool {
	return e.value == other.value
}
