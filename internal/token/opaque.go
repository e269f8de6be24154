// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"github.com/samber/oops"
)

// opaqueValueBytes is the entropy of a generated token value.
const opaqueValueBytes = 32

// GenerateOpaqueValue returns a random hex token value for callers that
// do not bring their own encoding.
func GenerateOpaqueValue() (string, error) {
	b := make([]byte, opaqueValueBytes)
	if _, err := rand.Read(b); err != nil {
		return "", oops.Code("TOKEN_GENERATE_FAILED").Wrap(err)
	}
	return hex.EncodeToString(b), nil
}

// Digest returns the SHA-256 hex digest of a token value, the form in
// which values are stored and looked up.
func Digest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
