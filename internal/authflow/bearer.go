// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package authflow

import (
	"context"
	"errors"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel/attribute"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/internal/observability"
	"github.com/holomush/authcore/internal/session"
	"github.com/holomush/authcore/internal/token"
	"github.com/holomush/authcore/pkg/errutil"
)

// Authentication identifies the user behind a bearer token.
type Authentication struct {
	User    *auth.User
	Session *session.Session
	// Rotated carries the new token pair when SilentAuth had to fall back
	// to the refresh token.
	Rotated *Grant
}

// Refresh rotates the bearer tokens of a session. The presented refresh
// token is revoked, a new access and refresh pair is issued and the session
// expiry moves forward by the session lifetime. Presenting a refresh token
// that was already rotated away ends its session.
func (s *Service) Refresh(ctx context.Context, rawRefresh string) (*Grant, error) {
	ctx, span := s.tracer.Start(ctx, "authflow.Refresh")
	defer span.End()

	grant, err := s.rotate(ctx, rawRefresh)
	if err != nil {
		s.metrics.SessionOperation(observability.OperationRefresh, errorOutcome(err))
		return nil, fail(span, err)
	}
	span.SetAttributes(attribute.String("session.id", grant.Session.ID().String()))
	s.metrics.SessionOperation(observability.OperationRefresh, observability.OutcomeSuccess)
	s.logger.InfoContext(ctx, "session refreshed",
		"user_id", grant.Session.UserID().String(),
		"session_id", grant.Session.ID().String())
	return grant, nil
}

// Logout ends the session a refresh token belongs to and revokes every
// bearer token of it. An empty or unknown token is not an error, so a
// client can always log out.
func (s *Service) Logout(ctx context.Context, rawRefresh string) error {
	ctx, span := s.tracer.Start(ctx, "authflow.Logout")
	defer span.End()

	if rawRefresh == "" {
		s.metrics.SessionOperation(observability.OperationLogout, observability.OutcomeRejected)
		return nil
	}
	t, err := s.bearers.FindRefresh(ctx, rawRefresh)
	if errors.Is(err, auth.ErrNotFound) {
		s.logger.DebugContext(ctx, "logout with unknown refresh token")
		s.metrics.SessionOperation(observability.OperationLogout, observability.OutcomeRejected)
		return nil
	}
	if err != nil {
		s.metrics.SessionOperation(observability.OperationLogout, observability.OutcomeError)
		return fail(span, err)
	}
	sess, err := s.sessions.Get(ctx, t.OwnerID())
	if err != nil {
		s.metrics.SessionOperation(observability.OperationLogout, observability.OutcomeError)
		return fail(span, err)
	}
	span.SetAttributes(attribute.String("session.id", sess.ID().String()))

	n, err := s.endSession(ctx, sess)
	if err != nil {
		s.metrics.SessionOperation(observability.OperationLogout, observability.OutcomeError)
		return fail(span, err)
	}
	s.metrics.SessionOperation(observability.OperationLogout, observability.OutcomeSuccess)
	s.logger.InfoContext(ctx, "session ended",
		"user_id", sess.UserID().String(),
		"session_id", sess.ID().String(),
		"revoked_tokens", n)
	return nil
}

// Authenticate resolves an access token to its user and session and
// records activity on the session. The token must be active and its
// session must be active.
func (s *Service) Authenticate(ctx context.Context, rawAccess string) (*Authentication, error) {
	ctx, span := s.tracer.Start(ctx, "authflow.Authenticate")
	defer span.End()

	a, err := s.authenticate(ctx, rawAccess)
	if err != nil {
		s.metrics.SessionOperation(observability.OperationAuthenticate, errorOutcome(err))
		return nil, fail(span, err)
	}
	span.SetAttributes(
		attribute.String("user.id", a.User.ID().String()),
		attribute.String("session.id", a.Session.ID().String()))
	s.metrics.SessionOperation(observability.OperationAuthenticate, observability.OutcomeSuccess)
	return a, nil
}

// SilentAuth restores a client's authentication without credentials. The
// access token is tried first. When it is missing or no longer valid the
// refresh token is rotated instead and the new pair is returned in
// Rotated. Storage failures are returned without falling back.
func (s *Service) SilentAuth(ctx context.Context, rawAccess, rawRefresh string) (*Authentication, error) {
	ctx, span := s.tracer.Start(ctx, "authflow.SilentAuth")
	defer span.End()

	if rawAccess != "" {
		a, err := s.authenticate(ctx, rawAccess)
		if err == nil {
			s.metrics.SessionOperation(observability.OperationSilentAuth, observability.OutcomeSuccess)
			return a, nil
		}
		if errutil.Domain(err) != errutil.DomainValidation {
			s.metrics.SessionOperation(observability.OperationSilentAuth, observability.OutcomeError)
			return nil, fail(span, err)
		}
		s.logger.DebugContext(ctx, "access token rejected, trying refresh token", "code", errutil.Code(err))
	}

	grant, err := s.rotate(ctx, rawRefresh)
	if err != nil {
		s.metrics.SessionOperation(observability.OperationSilentAuth, errorOutcome(err))
		return nil, fail(span, err)
	}
	user, err := s.users.GetByID(ctx, grant.Session.UserID())
	if err != nil {
		s.metrics.SessionOperation(observability.OperationSilentAuth, observability.OutcomeError)
		return nil, fail(span, err)
	}
	s.metrics.SessionOperation(observability.OperationSilentAuth, observability.OutcomeRotated)
	return &Authentication{User: user, Session: grant.Session, Rotated: grant}, nil
}

func (s *Service) authenticate(ctx context.Context, rawAccess string) (*Authentication, error) {
	if rawAccess == "" {
		return nil, emptyToken(token.KindAccess)
	}
	t, err := s.bearers.FindAccess(ctx, rawAccess)
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.Get(ctx, t.OwnerID())
	if err != nil {
		return nil, err
	}
	if !t.ValidFor(sess.ID()) || !sess.IsActive() {
		return nil, tokenNotValid(token.KindAccess, sess.ID())
	}
	user, err := s.users.GetByID(ctx, sess.UserID())
	if err != nil {
		return nil, err
	}
	sess.UpdateLastActivity()
	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, err
	}
	return &Authentication{User: user, Session: sess}, nil
}

func (s *Service) rotate(ctx context.Context, rawRefresh string) (*Grant, error) {
	if rawRefresh == "" {
		return nil, emptyToken(token.KindRefresh)
	}
	old, err := s.bearers.FindRefresh(ctx, rawRefresh)
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.Get(ctx, old.OwnerID())
	if err != nil {
		return nil, err
	}
	if old.IsRevoked() && sess.IsActive() {
		if _, err := s.endSession(ctx, sess); err != nil {
			return nil, err
		}
		s.logger.WarnContext(ctx, "revoked refresh token presented, session ended",
			"user_id", sess.UserID().String(),
			"session_id", sess.ID().String(),
			"token_id", old.ID().String())
		return nil, tokenNotValid(token.KindRefresh, sess.ID())
	}
	if !old.ValidFor(sess.ID()) || !sess.IsActive() {
		return nil, tokenNotValid(token.KindRefresh, sess.ID())
	}

	if err := old.Revoke(); err != nil {
		return nil, err
	}
	if err := s.bearers.MarkRevoked(ctx, old.ID()); err != nil {
		return nil, err
	}
	if next := s.clock.Now().Add(s.policy.SessionTTL); next.After(sess.ExpiresAt()) {
		if err := sess.ExtendExpiry(next); err != nil {
			return nil, err
		}
	}
	sess.UpdateLastActivity()
	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, err
	}
	access, refresh, err := s.issueBearers(ctx, sess)
	if err != nil {
		return nil, err
	}
	return &Grant{Session: sess, AccessToken: access, RefreshToken: refresh}, nil
}

// endSession revokes every bearer token of sess and deactivates it unless
// it already was. It returns how many tokens were revoked.
func (s *Service) endSession(ctx context.Context, sess *session.Session) (int64, error) {
	n, err := s.bearers.RevokeBySession(ctx, sess.ID())
	if err != nil {
		return 0, err
	}
	if sess.IsRevoked() {
		return n, nil
	}
	if err := sess.Deactivate(); err != nil {
		return 0, err
	}
	if err := s.sessions.Update(ctx, sess); err != nil {
		return 0, err
	}
	return n, nil
}

func tokenNotValid(kind token.Kind, sessionID identity.ID) error {
	return oops.Code("TOKEN_NOT_VALID").
		In(errutil.DomainValidation).
		With("kind", string(kind)).
		With("session_id", sessionID.String()).
		Errorf("%s token is expired or revoked, or its session has ended", kind)
}
