// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package identity provides the self-validating value types that name a
// principal and the context it connects from: identifiers, email
// addresses, IP addresses and user agents.
//
// Values are immutable and are only obtainable through their
// constructors. Zero values are not valid and report IsZero.
package identity
