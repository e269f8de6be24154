// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package token implements the token family: access and refresh tokens
// pinned to a session, and MFA, verification and password-reset tokens
// pinned to a user.
//
// Every variant embeds Token, which holds the one lifecycle
// implementation (IsActive, Revoke, ValidFor). Variants are obtained from
// a Factory, either freshly issued (New*) or restored from storage
// (Reconstitute*). A token's printable value is opaque here.
package token
