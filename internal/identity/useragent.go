// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package identity

import (
	"strconv"
	"strings"

	"github.com/samber/oops"
	"github.com/spaolacci/murmur3"

	"github.com/holomush/authcore/pkg/errutil"
)

// Unknown fills user agent components that could not be determined.
const Unknown = "Unknown"

// ParsedUserAgent is the classification a UserAgentParser produces.
type ParsedUserAgent struct {
	OS      string
	Browser string
	Device  string
}

// UserAgentParser classifies raw User-Agent header values.
type UserAgentParser interface {
	Parse(raw string) ParsedUserAgent
}

// UserAgent is a raw User-Agent string together with its classification.
type UserAgent struct {
	raw         string
	os          string
	browser     string
	device      string
	fingerprint string
}

// NewUserAgent classifies raw with parser.
func NewUserAgent(raw string, parser UserAgentParser) (UserAgent, error) {
	if parser == nil {
		return UserAgent{}, oops.Code("USER_AGENT_INVALID").
			In(errutil.DomainValidation).
			Errorf("user agent parser is required")
	}
	value := strings.TrimSpace(raw)
	if value == "" {
		return UserAgent{}, blankUserAgent()
	}
	parsed := parser.Parse(value)
	return buildUserAgent(value, parsed.OS, parsed.Browser, parsed.Device), nil
}

// ReconstituteUserAgent restores a previously classified user agent.
// Empty components become Unknown.
func ReconstituteUserAgent(raw, os, browser, device string) (UserAgent, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return UserAgent{}, blankUserAgent()
	}
	return buildUserAgent(value, os, browser, device), nil
}

func blankUserAgent() error {
	return oops.Code("USER_AGENT_INVALID").
		In(errutil.DomainValidation).
		Errorf("raw user agent cannot be blank")
}

func buildUserAgent(raw, os, browser, device string) UserAgent {
	return UserAgent{
		raw:         raw,
		os:          orUnknown(os),
		browser:     orUnknown(browser),
		device:      orUnknown(device),
		fingerprint: fingerprint(raw),
	}
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return Unknown
	}
	return s
}

// fingerprint is a stable 64-bit murmur3 digest of the raw string, hex encoded.
func fingerprint(raw string) string {
	sum := murmur3.Sum64([]byte(raw))
	s := strconv.FormatUint(sum, 16)
	return strings.Repeat("0", 16-len(s)) + s
}

// Raw returns the original header value.
func (ua UserAgent) Raw() string { return ua.raw }

// OS returns the operating system classification.
func (ua UserAgent) OS() string { return ua.os }

// Browser returns the browser classification.
func (ua UserAgent) Browser() string { return ua.browser }

// Device returns the device classification.
func (ua UserAgent) Device() string { return ua.device }

// Fingerprint returns the stable digest of the raw string.
func (ua UserAgent) Fingerprint() string { return ua.fingerprint }

// Value renders the classification as "os browser device".
func (ua UserAgent) Value() string {
	return ua.os + " " + ua.browser + " " + ua.device
}

// String returns Value.
func (ua UserAgent) String() string {
	return ua.Value()
}

// IsZero reports whether ua was never assigned.
func (ua UserAgent) IsZero() bool {
	return ua.raw == ""
}

// Equal compares the raw string and every classification component.
func (ua UserAgent) Equal(other UserAgent) bool {
	return ua == other
}
