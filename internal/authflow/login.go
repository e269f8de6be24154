// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package authflow

import (
	"context"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/observability"
	"github.com/holomush/authcore/internal/session"
	"github.com/holomush/authcore/internal/token"
	"github.com/holomush/authcore/pkg/errutil"
)

// LoginRequest is one login attempt as received from a client.
type LoginRequest struct {
	Email     string
	Password  string
	UserAgent string
	IP        string
}

// LoginResult is the outcome of a login attempt that was judged. Exactly
// one of Grant, Challenge or FailureReason is set.
type LoginResult struct {
	User          *auth.User
	Grant         *Grant
	Challenge     *MFAChallenge
	FailureReason auth.FailureReason
	// Throttle advises the transport on delays and CAPTCHA. It is zero
	// when the email was not recognized.
	Throttle auth.Throttle
}

// Authenticated reports whether a session was opened.
func (r *LoginResult) Authenticated() bool { return r.Grant != nil }

// MFARequired reports whether a second factor is pending.
func (r *LoginResult) MFARequired() bool { return r.Challenge != nil }

// Grant is an open session with its bearer tokens.
type Grant struct {
	Session      *session.Session
	AccessToken  *token.AccessToken
	RefreshToken *token.RefreshToken
}

// MFAChallenge is a pending second factor. The caller delivers
// Token.Value() out of band and passes the challenge back to CompleteMFA.
type MFAChallenge struct {
	Token   *token.MFAToken
	Context auth.LoginContext
	user    *auth.User
}

// Login judges a login attempt. Rejected input and infrastructure failures
// are returned as errors; wrong credentials and locked accounts are
// reported in the result.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	ctx, span := s.tracer.Start(ctx, "authflow.Login")
	defer span.End()

	proof, err := s.login.ValidateForLogin(ctx, req.Email, req.Password)
	if err != nil {
		s.metrics.LoginAttempt(errorOutcome(err))
		return nil, fail(span, err)
	}

	user, found := proof.User()
	if !proof.Succeeded() {
		return s.rejectLogin(ctx, span, proof, user, found)
	}
	span.SetAttributes(attribute.String("user.id", user.ID().String()))

	if err := user.ResetFailedLogins(proof); err != nil {
		s.metrics.LoginAttempt(observability.OutcomeError)
		return nil, fail(span, err)
	}
	if err := s.users.Update(ctx, user); err != nil {
		s.metrics.LoginAttempt(observability.OutcomeError)
		return nil, fail(span, err)
	}

	lc, err := s.contexts.Create(user.ID().String(), req.UserAgent, req.IP)
	if err != nil {
		s.metrics.LoginAttempt(errorOutcome(err))
		return nil, fail(span, err)
	}
	history, err := s.history.ListByUser(ctx, user.ID(), s.policy.HistoryLimit)
	if err != nil {
		s.metrics.LoginAttempt(observability.OutcomeError)
		return nil, fail(span, err)
	}
	required, err := s.mfa.IsMFARequired(history, &lc)
	if err != nil {
		s.metrics.LoginAttempt(observability.OutcomeError)
		return nil, fail(span, err)
	}
	s.metrics.MFADecision(required)
	span.SetAttributes(attribute.Bool("mfa.required", required))

	result := &LoginResult{User: user, Throttle: auth.CheckFailures(0)}
	if required {
		challenge, err := s.challenge(user, lc)
		if err != nil {
			s.metrics.LoginAttempt(observability.OutcomeError)
			return nil, fail(span, err)
		}
		result.Challenge = challenge
		s.metrics.LoginAttempt(observability.OutcomeMFARequired)
		s.logger.InfoContext(ctx, "mfa challenge issued",
			"user_id", user.ID().String(),
			"device", lc.Device(),
			"ip", lc.IP().String())
		return result, nil
	}

	grant, err := s.grant(ctx, user, lc)
	if err != nil {
		s.metrics.LoginAttempt(observability.OutcomeError)
		return nil, fail(span, err)
	}
	result.Grant = grant
	s.metrics.LoginAttempt(observability.OutcomeSuccess)
	s.logger.InfoContext(ctx, "login succeeded", "user_id", user.ID().String(), "session_id", grant.Session.ID().String())
	return result, nil
}

// CompleteMFA checks the code for a pending challenge and, on a match,
// opens the session and remembers the login context. The challenge token is
// consumed whether or not the code matches.
func (s *Service) CompleteMFA(ctx context.Context, challenge *MFAChallenge, rawCode int) (*Grant, error) {
	ctx, span := s.tracer.Start(ctx, "authflow.CompleteMFA")
	defer span.End()

	if challenge == nil || challenge.Token == nil || challenge.user == nil {
		return nil, fail(span, oops.Code("MFA_CHALLENGE_INVALID").
			In(errutil.DomainProtocol).
			Errorf("challenge was not issued by Login"))
	}
	code, err := credential.NewOneTimeCode(rawCode)
	if err != nil {
		return nil, fail(span, err)
	}
	if !challenge.Token.ValidFor(challenge.user.ID()) {
		return nil, fail(span, oops.Code("TOKEN_NOT_VALID").
			In(errutil.DomainValidation).
			With("user_id", challenge.user.ID().String()).
			Errorf("mfa challenge has expired or was already used"))
	}
	matched := challenge.Token.Matches(code)
	if err := challenge.Token.Revoke(); err != nil {
		return nil, fail(span, err)
	}
	if !matched {
		s.logger.InfoContext(ctx, "mfa code rejected", "user_id", challenge.user.ID().String())
		return nil, fail(span, oops.Code("MFA_CODE_MISMATCH").
			In(errutil.DomainValidation).
			With("user_id", challenge.user.ID().String()).
			Errorf("one-time code does not match"))
	}
	return s.grant(ctx, challenge.user, challenge.Context)
}

func (s *Service) rejectLogin(ctx context.Context, span trace.Span, proof auth.AuthProof, user *auth.User, found bool) (*LoginResult, error) {
	failed, ok := proof.(auth.FailedAuthProof)
	if !ok {
		return nil, fail(span, oops.Code("PROOF_MISMATCH").In(errutil.DomainProtocol).Errorf("proof mismatch: unexpected proof type %T", proof))
	}
	result := &LoginResult{User: user, FailureReason: failed.Reason()}
	span.SetAttributes(attribute.String("login.failure", string(failed.Reason())))

	if !found {
		s.metrics.LoginAttempt(observability.OutcomeInvalid)
		return result, nil
	}

	if failed.Reason() == auth.ReasonInvalidCredentials {
		if err := user.RecordFailedLogin(proof); err != nil {
			return nil, fail(span, err)
		}
		if err := s.users.Update(ctx, user); err != nil {
			s.metrics.LoginAttempt(observability.OutcomeError)
			return nil, fail(span, err)
		}
	}
	result.Throttle = auth.CheckFailures(user.FailedLoginAttempts())

	if failed.Reason() == auth.ReasonAccountLocked || user.IsLocked() {
		s.metrics.LoginAttempt(observability.OutcomeLocked)
	} else {
		s.metrics.LoginAttempt(observability.OutcomeInvalid)
	}
	return result, nil
}

func (s *Service) challenge(user *auth.User, lc auth.LoginContext) (*MFAChallenge, error) {
	code, err := credential.GenerateOneTimeCode()
	if err != nil {
		return nil, err
	}
	tok, err := s.tokens.NewMFA(code, s.clock.Now().Add(s.policy.MFATTL), user.ID())
	if err != nil {
		return nil, err
	}
	return &MFAChallenge{Token: tok, Context: lc, user: user}, nil
}

// grant opens a session, issues its tokens and remembers the login context.
func (s *Service) grant(ctx context.Context, user *auth.User, lc auth.LoginContext) (*Grant, error) {
	sess, err := s.sessionsF.New(user.ID(), s.clock.Now().Add(s.policy.SessionTTL))
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	access, refresh, err := s.issueBearers(ctx, sess)
	if err != nil {
		return nil, err
	}
	if err := s.history.Record(ctx, lc); err != nil {
		return nil, err
	}
	return &Grant{Session: sess, AccessToken: access, RefreshToken: refresh}, nil
}

// issueBearers mints and stores a fresh access and refresh token pair for
// sess.
func (s *Service) issueBearers(ctx context.Context, sess *session.Session) (*token.AccessToken, *token.RefreshToken, error) {
	now := s.clock.Now()
	accessValue, err := token.GenerateOpaqueValue()
	if err != nil {
		return nil, nil, err
	}
	refreshValue, err := token.GenerateOpaqueValue()
	if err != nil {
		return nil, nil, err
	}
	access, err := s.tokens.NewAccess(accessValue, now.Add(s.policy.AccessTTL), sess.ID())
	if err != nil {
		return nil, nil, err
	}
	refresh, err := s.tokens.NewRefresh(refreshValue, now.Add(s.policy.RefreshTTL), sess.ID())
	if err != nil {
		return nil, nil, err
	}
	if err := s.bearers.SaveAccess(ctx, access); err != nil {
		return nil, nil, err
	}
	if err := s.bearers.SaveRefresh(ctx, refresh); err != nil {
		return nil, nil, err
	}
	return access, refresh, nil
}

func errorOutcome(err error) string {
	if errutil.Domain(err) == errutil.DomainValidation {
		return observability.OutcomeRejected
	}
	return observability.OutcomeError
}
