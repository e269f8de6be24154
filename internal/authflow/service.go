// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package authflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/clock"
	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/internal/observability"
	"github.com/holomush/authcore/internal/session"
	"github.com/holomush/authcore/internal/token"
	"github.com/holomush/authcore/pkg/errutil"
)

const tracerName = "github.com/holomush/authcore/internal/authflow"

// Policy holds lifetimes and limits for issued credentials.
type Policy struct {
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	MFATTL           time.Duration
	VerificationTTL  time.Duration
	PasswordResetTTL time.Duration
	SessionTTL       time.Duration
	HistoryLimit     int
}

// DefaultPolicy returns the stock lifetimes.
func DefaultPolicy() Policy {
	return Policy{
		AccessTTL:        15 * time.Minute,
		RefreshTTL:       7 * 24 * time.Hour,
		MFATTL:           5 * time.Minute,
		VerificationTTL:  24 * time.Hour,
		PasswordResetTTL: time.Hour,
		SessionTTL:       7 * 24 * time.Hour,
		HistoryLimit:     50,
	}
}

// Deps are the collaborators of a Service. Clock, Metrics, Logger and
// Tracer are optional.
type Deps struct {
	Users         UserStore
	History       LoginHistory
	Sessions      SessionStore
	SessionTokens SessionTokens
	Tokens        AccountTokens
	Hasher        credential.Hasher
	UserAgents    identity.UserAgentParser
	Clock         clock.Clock
	Metrics       *observability.Metrics
	Logger        *slog.Logger
	Tracer        trace.Tracer
}

// Service runs registration, login, session upkeep and account recovery.
type Service struct {
	users    UserStore
	history  LoginHistory
	sessions SessionStore
	bearers  SessionTokens
	accounts AccountTokens
	hasher   credential.Hasher
	policy   Policy

	userFactory  *auth.UserFactory
	contexts     *auth.LoginContextFactory
	login        *auth.LoginValidator
	registration *auth.RegistrationValidator
	mfa          *auth.MFARiskService
	tokens       *token.Factory
	sessionsF    *session.Factory

	clock   clock.Clock
	metrics *observability.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewService wires a Service.
func NewService(deps Deps, policy Policy) (*Service, error) {
	if deps.Users == nil || deps.History == nil || deps.Sessions == nil || deps.SessionTokens == nil || deps.Tokens == nil {
		return nil, oops.Code("DEPENDENCY_REQUIRED").
			In(errutil.DomainProtocol).
			Errorf("user, history, session, session token and account token stores are required")
	}
	if policy.HistoryLimit <= 0 {
		policy.HistoryLimit = DefaultPolicy().HistoryLimit
	}

	c := clock.OrSystem(deps.Clock)
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := deps.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	userFactory, err := auth.NewUserFactory(deps.Hasher, c)
	if err != nil {
		return nil, err
	}
	contexts, err := auth.NewLoginContextFactory(deps.UserAgents)
	if err != nil {
		return nil, err
	}
	login, err := auth.NewLoginValidator(deps.Users, deps.Hasher, logger)
	if err != nil {
		return nil, err
	}
	registration, err := auth.NewRegistrationValidator(deps.Users, logger)
	if err != nil {
		return nil, err
	}

	return &Service{
		users:        deps.Users,
		history:      deps.History,
		sessions:     deps.Sessions,
		bearers:      deps.SessionTokens,
		accounts:     deps.Tokens,
		hasher:       deps.Hasher,
		policy:       policy,
		userFactory:  userFactory,
		contexts:     contexts,
		login:        login,
		registration: registration,
		mfa:          auth.NewMFARiskService(),
		tokens:       token.NewFactory(c),
		sessionsF:    session.NewFactory(c),
		clock:        c,
		metrics:      deps.Metrics,
		logger:       logger,
		tracer:       tracer,
	}, nil
}

// Register validates and stores a new account.
func (s *Service) Register(ctx context.Context, rawEmail, rawPassword string) (*auth.User, error) {
	ctx, span := s.tracer.Start(ctx, "authflow.Register")
	defer span.End()

	proof, err := s.registration.ValidateForRegistration(ctx, rawEmail, rawPassword)
	if err != nil {
		s.metrics.Registration(registrationOutcome(err))
		return nil, fail(span, err)
	}
	u, err := s.userFactory.Create(proof)
	if err != nil {
		s.metrics.Registration(observability.OutcomeError)
		return nil, fail(span, err)
	}
	if err := s.users.Create(ctx, u); err != nil {
		s.metrics.Registration(registrationOutcome(err))
		return nil, fail(span, err)
	}

	span.SetAttributes(attribute.String("user.id", u.ID().String()))
	s.metrics.Registration(observability.OutcomeRegistered)
	s.logger.InfoContext(ctx, "user registered", "user_id", u.ID().String())
	return u, nil
}

func registrationOutcome(err error) string {
	switch {
	case errutil.Code(err) == "EMAIL_ALREADY_EXISTS":
		return observability.OutcomeEmailTaken
	case errutil.Domain(err) == errutil.DomainValidation:
		return observability.OutcomeRejected
	default:
		return observability.OutcomeError
	}
}

// fail records err on span and returns it.
func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, errutil.Code(err))
	return err
}
