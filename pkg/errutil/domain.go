// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil

import "github.com/samber/oops"

// Error domains classify failures by how a caller should react. Every
// error raised by the authcore packages carries one of these through
// oops.In.
const (
	// DomainValidation marks malformed caller input. Recoverable: reject the request.
	DomainValidation = "validation"
	// DomainPersistence marks stored data that cannot be decoded.
	DomainPersistence = "persistence"
	// DomainIntegrity marks credential material that must not be trusted.
	DomainIntegrity = "integrity"
	// DomainProtocol marks an orchestration bug, such as a proof for another user.
	DomainProtocol = "protocol"
	// DomainLifecycle marks misuse of a one-way state transition.
	DomainLifecycle = "lifecycle"
	// DomainConflict marks a rejection caused by existing state.
	DomainConflict = "conflict"
)

// Domains lists every error domain authcore uses.
func Domains() []string {
	return []string{
		DomainValidation,
		DomainPersistence,
		DomainIntegrity,
		DomainProtocol,
		DomainLifecycle,
		DomainConflict,
	}
}

// Domain returns the oops domain of err, or "" when err carries none.
func Domain(err error) string {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	return oopsErr.Domain()
}

// Code returns the oops code of err as a string, or "" when err carries none.
func Code(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	code, _ := oopsErr.Code().(string)
	return code
}
