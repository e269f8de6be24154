// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package token

import (
	"time"

	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/clock"
	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/pkg/errutil"
)

// Kind tags a token variant.
type Kind string

// Token kinds.
const (
	KindAccess        Kind = "access"
	KindRefresh       Kind = "refresh"
	KindMFA           Kind = "mfa"
	KindVerification  Kind = "verification"
	KindPasswordReset Kind = "password_reset"
)

// OwnerKind names what a token is pinned to.
type OwnerKind string

// Owner kinds.
const (
	OwnerSession OwnerKind = "session"
	OwnerUser    OwnerKind = "user"
)

// Owner returns the kind of identity tokens of kind k are pinned to.
func (k Kind) Owner() OwnerKind {
	switch k {
	case KindAccess, KindRefresh:
		return OwnerSession
	default:
		return OwnerUser
	}
}

// Value is the set of types a token can carry.
type Value interface {
	string | credential.OneTimeCode
}

// Token is the state shared by every variant.
type Token[V Value] struct {
	id        identity.ID
	kind      Kind
	value     V
	issuedAt  time.Time
	expiresAt time.Time
	revoked   bool
	owner     identity.ID
	clock     clock.Clock
}

// ID returns the token identity.
func (t *Token[V]) ID() identity.ID { return t.id }

// Kind returns the variant tag.
func (t *Token[V]) Kind() Kind { return t.kind }

// Value returns the carried value.
func (t *Token[V]) Value() V { return t.value }

// IssuedAt returns when the token was issued.
func (t *Token[V]) IssuedAt() time.Time { return t.issuedAt }

// ExpiresAt returns when the token stops being active.
func (t *Token[V]) ExpiresAt() time.Time { return t.expiresAt }

// IsRevoked reports whether Revoke has been called.
func (t *Token[V]) IsRevoked() bool { return t.revoked }

// OwnerID returns the session or user identity the token is pinned to.
func (t *Token[V]) OwnerID() identity.ID { return t.owner }

// OwnerKind returns whether OwnerID names a session or a user.
func (t *Token[V]) OwnerKind() OwnerKind { return t.kind.Owner() }

// IsActive reports whether the token is unrevoked and unexpired.
func (t *Token[V]) IsActive() bool {
	return !t.revoked && t.clock.Now().Before(t.expiresAt)
}

// Revoke retires the token. Revoking twice is an error.
func (t *Token[V]) Revoke() error {
	if t.revoked {
		return oops.Code("TOKEN_ALREADY_REVOKED").
			In(errutil.DomainLifecycle).
			With("token_id", t.id.String()).
			With("kind", string(t.kind)).
			Errorf("cannot revoke a revoked token")
	}
	t.revoked = true
	return nil
}

// ValidFor reports whether the token is active and pinned to candidate.
func (t *Token[V]) ValidFor(candidate identity.ID) bool {
	return t.IsActive() && t.owner.Equal(candidate)
}
