// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package useragent classifies User-Agent headers.
package useragent

import (
	"strings"

	"github.com/mssola/useragent"

	"github.com/holomush/authcore/internal/identity"
)

// Device classes.
const (
	DeviceDesktop = "Desktop"
	DeviceMobile  = "Mobile"
	DeviceBot     = "Bot"
)

// Parser implements identity.UserAgentParser.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() Parser {
	return Parser{}
}

var _ identity.UserAgentParser = Parser{}

// Parse extracts operating system, browser and device class. Components
// that cannot be determined are identity.Unknown.
func (Parser) Parse(raw string) identity.ParsedUserAgent {
	ua := useragent.New(raw)

	name, version := ua.Browser()
	browser := strings.TrimSpace(name + " " + version)

	device := DeviceDesktop
	switch {
	case ua.Bot():
		device = DeviceBot
	case ua.Mobile():
		device = DeviceMobile
	}

	return identity.ParsedUserAgent{
		OS:      orUnknown(ua.OS()),
		Browser: orUnknown(browser),
		Device:  device,
	}
}

func orUnknown(s string) string {
	if s == "" {
		return identity.Unknown
	}
	return s
}
