// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package authflow

import (
	"context"
	"errors"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel/attribute"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/internal/token"
	"github.com/holomush/authcore/pkg/errutil"
)

// RequestPasswordReset issues a password reset token and returns its raw
// value for delivery. An unknown email and a request inside the cooldown
// both return an empty value and no error, so callers cannot tell them
// apart from success.
func (s *Service) RequestPasswordReset(ctx context.Context, rawEmail string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "authflow.RequestPasswordReset")
	defer span.End()

	email, err := identity.ParseEmail(rawEmail)
	if err != nil {
		return "", fail(span, err)
	}
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, auth.ErrNotFound) {
		s.logger.DebugContext(ctx, "password reset for unknown email")
		return "", nil
	}
	if err != nil {
		return "", fail(span, oops.Code("RESET_REQUEST_FAILED").With("operation", "find user by email").Wrap(err))
	}
	span.SetAttributes(attribute.String("user.id", user.ID().String()))

	if !user.RequestPasswordReset() {
		s.logger.InfoContext(ctx, "password reset throttled", "user_id", user.ID().String())
		return "", nil
	}
	if err := s.users.Update(ctx, user); err != nil {
		return "", fail(span, err)
	}

	value, err := token.GenerateOpaqueValue()
	if err != nil {
		return "", fail(span, err)
	}
	t, err := s.tokens.NewPasswordReset(value, s.clock.Now().Add(s.policy.PasswordResetTTL), user.ID())
	if err != nil {
		return "", fail(span, err)
	}
	if err := s.accounts.SavePasswordReset(ctx, t); err != nil {
		return "", fail(span, err)
	}

	s.logger.InfoContext(ctx, "password reset issued", "user_id", user.ID().String(), "token_id", t.ID().String())
	return value, nil
}

// ResetPassword replaces the password of the user a reset token was issued
// to. Every outstanding reset token of that user is revoked before the new
// hash is stored, so a failed write leaves no usable token behind.
func (s *Service) ResetPassword(ctx context.Context, rawToken, rawPassword string) error {
	ctx, span := s.tracer.Start(ctx, "authflow.ResetPassword")
	defer span.End()

	password, err := credential.ParsePassword(rawPassword)
	if err != nil {
		return fail(span, err)
	}
	if rawToken == "" {
		return fail(span, emptyToken(token.KindPasswordReset))
	}
	t, err := s.accounts.FindPasswordReset(ctx, rawToken)
	if err != nil {
		return fail(span, err)
	}
	user, err := s.users.GetByID(ctx, t.OwnerID())
	if err != nil {
		return fail(span, err)
	}
	span.SetAttributes(attribute.String("user.id", user.ID().String()))

	if err := user.ChangePassword(t, password, s.hasher); err != nil {
		return fail(span, err)
	}
	if err := s.revokeOutstanding(ctx, user.ID(), token.KindPasswordReset); err != nil {
		return fail(span, err)
	}
	if err := s.users.Update(ctx, user); err != nil {
		return fail(span, err)
	}

	s.logger.InfoContext(ctx, "password changed", "user_id", user.ID().String())
	return nil
}

// IssueVerification issues an email verification token for the account
// registered under rawEmail and returns its raw value for delivery.
func (s *Service) IssueVerification(ctx context.Context, rawEmail string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "authflow.IssueVerification")
	defer span.End()

	email, err := identity.ParseEmail(rawEmail)
	if err != nil {
		return "", fail(span, err)
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", fail(span, err)
	}
	if user.IsVerified() {
		return "", fail(span, oops.Code("EMAIL_ALREADY_VERIFIED").
			In(errutil.DomainConflict).
			With("user_id", user.ID().String()).
			Errorf("email is already verified"))
	}

	value, err := token.GenerateOpaqueValue()
	if err != nil {
		return "", fail(span, err)
	}
	t, err := s.tokens.NewVerification(value, s.clock.Now().Add(s.policy.VerificationTTL), user.ID())
	if err != nil {
		return "", fail(span, err)
	}
	if err := s.accounts.SaveVerification(ctx, t); err != nil {
		return "", fail(span, err)
	}
	return value, nil
}

// ConfirmEmail marks the owner of a verification token verified.
func (s *Service) ConfirmEmail(ctx context.Context, rawToken string) (*auth.User, error) {
	ctx, span := s.tracer.Start(ctx, "authflow.ConfirmEmail")
	defer span.End()

	if rawToken == "" {
		return nil, fail(span, emptyToken(token.KindVerification))
	}
	t, err := s.accounts.FindVerification(ctx, rawToken)
	if err != nil {
		return nil, fail(span, err)
	}
	user, err := s.users.GetByID(ctx, t.OwnerID())
	if err != nil {
		return nil, fail(span, err)
	}
	if err := user.ConfirmEmail(t); err != nil {
		return nil, fail(span, err)
	}
	if err := s.revokeOutstanding(ctx, user.ID(), token.KindVerification); err != nil {
		return nil, fail(span, err)
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fail(span, err)
	}

	s.logger.InfoContext(ctx, "email confirmed", "user_id", user.ID().String())
	return user, nil
}

func (s *Service) revokeOutstanding(ctx context.Context, userID identity.ID, kind token.Kind) error {
	n, err := s.accounts.RevokeOutstanding(ctx, userID, kind)
	if err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "revoked outstanding tokens", "user_id", userID.String(), "kind", string(kind), "count", n)
	return nil
}

func emptyToken(kind token.Kind) error {
	return oops.Code("TOKEN_VALUE_INVALID").
		In(errutil.DomainValidation).
		With("kind", string(kind)).
		Errorf("token value cannot be empty")
}
