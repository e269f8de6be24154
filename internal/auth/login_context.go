// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/identity"
)

// LoginContext records who logged in, with what user agent, from where.
type LoginContext struct {
	userID    identity.ID
	userAgent identity.UserAgent
	ip        identity.IPAddress
}

// UserID returns the user that logged in.
func (c LoginContext) UserID() identity.ID { return c.userID }

// UserAgent returns the classified user agent.
func (c LoginContext) UserAgent() identity.UserAgent { return c.userAgent }

// IP returns the source address.
func (c LoginContext) IP() identity.IPAddress { return c.ip }

// OS returns the user agent's operating system.
func (c LoginContext) OS() string { return c.userAgent.OS() }

// Browser returns the user agent's browser.
func (c LoginContext) Browser() string { return c.userAgent.Browser() }

// Device returns the user agent's device class.
func (c LoginContext) Device() string { return c.userAgent.Device() }

// Equal compares user, user agent and IP address by value.
func (c LoginContext) Equal(other LoginContext) bool {
	return c.userID.Equal(other.userID) &&
		c.userAgent.Equal(other.userAgent) &&
		c.ip.Equal(other.ip)
}

// LoginContextFactory builds login contexts from request data or storage.
type LoginContextFactory struct {
	parser identity.UserAgentParser
}

// NewLoginContextFactory creates a LoginContextFactory.
func NewLoginContextFactory(parser identity.UserAgentParser) (*LoginContextFactory, error) {
	if parser == nil {
		return nil, missingDependency("user agent parser")
	}
	return &LoginContextFactory{parser: parser}, nil
}

// Create classifies the user agent of a live request.
func (f *LoginContextFactory) Create(rawUserID, rawUserAgent, rawIP string) (LoginContext, error) {
	userID, err := identity.ParseID(rawUserID)
	if err != nil {
		return LoginContext{}, oops.With("field", "user_id").Wrap(err)
	}
	ua, err := identity.NewUserAgent(rawUserAgent, f.parser)
	if err != nil {
		return LoginContext{}, oops.With("field", "user_agent").Wrap(err)
	}
	ip, err := identity.ParseIPAddress(rawIP)
	if err != nil {
		return LoginContext{}, oops.With("field", "ip").Wrap(err)
	}
	return LoginContext{userID: userID, userAgent: ua, ip: ip}, nil
}

// Reconstitute restores a stored login context without reparsing the
// user agent.
func (f *LoginContextFactory) Reconstitute(rawUserID, rawUserAgent, os, browser, device, rawIP string) (LoginContext, error) {
	userID, err := identity.ParseID(rawUserID)
	if err != nil {
		return LoginContext{}, oops.With("field", "user_id").Wrap(err)
	}
	ua, err := identity.ReconstituteUserAgent(rawUserAgent, os, browser, device)
	if err != nil {
		return LoginContext{}, oops.With("field", "user_agent").Wrap(err)
	}
	ip, err := identity.ParseIPAddress(rawIP)
	if err != nil {
		return LoginContext{}, oops.With("field", "ip").Wrap(err)
	}
	return LoginContext{userID: userID, userAgent: ua, ip: ip}, nil
}
