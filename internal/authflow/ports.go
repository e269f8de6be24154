// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package authflow

import (
	"context"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/internal/session"
	"github.com/holomush/authcore/internal/token"
)

// UserStore persists users.
type UserStore interface {
	auth.UserRepository
	GetByID(ctx context.Context, id identity.ID) (*auth.User, error)
	Create(ctx context.Context, u *auth.User) error
	Update(ctx context.Context, u *auth.User) error
}

// LoginHistory stores the login contexts MFA risk is judged against.
type LoginHistory interface {
	Record(ctx context.Context, lc auth.LoginContext) error
	ListByUser(ctx context.Context, userID identity.ID, limit int) ([]auth.LoginContext, error)
}

// SessionStore persists sessions. Get wraps auth.ErrNotFound for unknown
// sessions.
type SessionStore interface {
	Create(ctx context.Context, s *session.Session) error
	Get(ctx context.Context, id identity.ID) (*session.Session, error)
	Update(ctx context.Context, s *session.Session) error
}

// SessionTokens stores the access and refresh tokens of sessions. Lookups
// take the raw value handed to the client and wrap auth.ErrNotFound for
// unknown values.
type SessionTokens interface {
	SaveAccess(ctx context.Context, t *token.AccessToken) error
	SaveRefresh(ctx context.Context, t *token.RefreshToken) error
	FindAccess(ctx context.Context, rawValue string) (*token.AccessToken, error)
	FindRefresh(ctx context.Context, rawValue string) (*token.RefreshToken, error)
	MarkRevoked(ctx context.Context, id identity.ID) error
	RevokeBySession(ctx context.Context, sessionID identity.ID) (int64, error)
}

// AccountTokens stores verification and password reset tokens. Lookups
// take the raw value handed to the user.
type AccountTokens interface {
	SaveVerification(ctx context.Context, t *token.VerificationToken) error
	SavePasswordReset(ctx context.Context, t *token.PasswordResetToken) error
	FindVerification(ctx context.Context, rawValue string) (*token.VerificationToken, error)
	FindPasswordReset(ctx context.Context, rawValue string) (*token.PasswordResetToken, error)
	RevokeOutstanding(ctx context.Context, userID identity.ID, kind token.Kind) (int64, error)
}
