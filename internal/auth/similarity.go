// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"strings"
	"unicode"

	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/pkg/errutil"
)

// minSimilarityLength is the shortest local part checked for reuse. Shorter
// local parts would reject too many unrelated passwords.
const minSimilarityLength = 3

// checkSimilarity rejects passwords that contain the email local part,
// ignoring case and non-alphanumeric characters.
func checkSimilarity(email identity.Email, rawPassword string) error {
	local := alphanumeric(email.LocalPart())
	if len([]rune(local)) < minSimilarityLength {
		return nil
	}
	if strings.Contains(alphanumeric(rawPassword), local) {
		return oops.Code("PASSWORD_TOO_SIMILAR").
			In(errutil.DomainValidation).
			Errorf("password is too similar to the email address")
	}
	return nil
}

func alphanumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
