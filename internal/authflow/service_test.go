// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package authflow_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/authflow"
	"github.com/holomush/authcore/internal/clock"
	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/observability"
	"github.com/holomush/authcore/internal/useragent"
	"github.com/holomush/authcore/pkg/errutil"
)

const (
	email    = "mohamed@gatech.edu"
	password = "SecurePass123!."
	firefox  = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
	chrome   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	homeIP   = "203.0.113.7"
)

var _ = Describe("Service", func() {
	var (
		ctx      context.Context
		clk      *clock.Manual
		users    *memUsers
		history  *memHistory
		sessions *memSessions
		tokens   *memTokens
		bearers  *memBearers
		metrics  *observability.Metrics
		svc      *authflow.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		clk = clock.NewManual(time.Date(2025, 12, 27, 13, 45, 0, 0, time.UTC))
		users = newMemUsers()
		history = &memHistory{}
		sessions = &memSessions{}
		tokens = newMemTokens()
		bearers = newMemBearers()
		metrics = observability.NewMetrics(prometheus.NewRegistry())

		var err error
		svc, err = authflow.NewService(authflow.Deps{
			Users:         users,
			History:       history,
			Sessions:      sessions,
			Tokens:        tokens,
			SessionTokens: bearers,
			Hasher:        prefixHasher{},
			UserAgents:    useragent.NewParser(),
			Clock:         clk,
			Metrics:       metrics,
			Tracer:        noop.NewTracerProvider().Tracer("test"),
		}, authflow.DefaultPolicy())
		Expect(err).NotTo(HaveOccurred())
	})

	login := func(ua string) *authflow.LoginResult {
		GinkgoHelper()
		res, err := svc.Login(ctx, authflow.LoginRequest{Email: email, Password: password, UserAgent: ua, IP: homeIP})
		Expect(err).NotTo(HaveOccurred())
		return res
	}

	// trust completes one MFA round so the context becomes known.
	trust := func(ua string) {
		GinkgoHelper()
		res := login(ua)
		Expect(res.MFARequired()).To(BeTrue())
		_, err := svc.CompleteMFA(ctx, res.Challenge, res.Challenge.Token.Value().Int())
		Expect(err).NotTo(HaveOccurred())
	}

	Describe("NewService", func() {
		It("requires the stores", func() {
			_, err := authflow.NewService(authflow.Deps{Hasher: prefixHasher{}}, authflow.DefaultPolicy())
			Expect(errutil.Code(err)).To(Equal("DEPENDENCY_REQUIRED"))
		})

		It("requires a hasher", func() {
			_, err := authflow.NewService(authflow.Deps{
				Users: users, History: history, Sessions: sessions, Tokens: tokens, SessionTokens: bearers,
				UserAgents: useragent.NewParser(),
			}, authflow.DefaultPolicy())
			Expect(errutil.Code(err)).To(Equal("DEPENDENCY_REQUIRED"))
		})
	})

	Describe("Register", func() {
		It("stores the new user", func() {
			u, err := svc.Register(ctx, email, password)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Email().String()).To(Equal(email))
			Expect(u.IsVerified()).To(BeFalse())
			Expect(users.byEmail).To(HaveKey(email))
			Expect(testutil.ToFloat64(metrics.Registrations.WithLabelValues(observability.OutcomeRegistered))).To(Equal(1.0))
		})

		It("rejects a taken email", func() {
			_, err := svc.Register(ctx, email, password)
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Register(ctx, email, password)
			Expect(errutil.Code(err)).To(Equal("EMAIL_ALREADY_EXISTS"))
			Expect(testutil.ToFloat64(metrics.Registrations.WithLabelValues(observability.OutcomeEmailTaken))).To(Equal(1.0))
		})

		It("rejects a weak password", func() {
			_, err := svc.Register(ctx, email, "password")
			Expect(errutil.Domain(err)).To(Equal(errutil.DomainValidation))
			Expect(users.byEmail).To(BeEmpty())
			Expect(testutil.ToFloat64(metrics.Registrations.WithLabelValues(observability.OutcomeRejected))).To(Equal(1.0))
		})
	})

	Describe("Login", func() {
		BeforeEach(func() {
			_, err := svc.Register(ctx, email, password)
			Expect(err).NotTo(HaveOccurred())
		})

		It("challenges a first login from an unseen context", func() {
			res := login(firefox)

			Expect(res.Authenticated()).To(BeFalse())
			Expect(res.MFARequired()).To(BeTrue())
			Expect(res.Challenge.Token.ExpiresAt()).To(BeTemporally("==", clk.Now().Add(5*time.Minute)))
			Expect(res.Challenge.Token.OwnerID()).To(Equal(res.User.ID()))
			Expect(history.entries).To(BeEmpty())
			Expect(sessions.created).To(BeEmpty())
			Expect(testutil.ToFloat64(metrics.MFAChallenges.WithLabelValues("true"))).To(Equal(1.0))
		})

		It("grants a session from a known context", func() {
			trust(firefox)

			res := login(firefox)
			Expect(res.MFARequired()).To(BeFalse())
			Expect(res.Authenticated()).To(BeTrue())

			grant := res.Grant
			Expect(grant.Session.UserID()).To(Equal(res.User.ID()))
			Expect(grant.AccessToken.OwnerID()).To(Equal(grant.Session.ID()))
			Expect(grant.RefreshToken.OwnerID()).To(Equal(grant.Session.ID()))
			Expect(grant.AccessToken.Value()).NotTo(Equal(grant.RefreshToken.Value()))
			Expect(grant.AccessToken.ExpiresAt()).To(BeTemporally("==", clk.Now().Add(15*time.Minute)))
			Expect(sessions.created).To(HaveLen(2))
			Expect(bearers.live(grant.Session.ID())).To(Equal(2))
			Expect(history.entries).To(HaveLen(2))
			Expect(testutil.ToFloat64(metrics.LoginAttempts.WithLabelValues(observability.OutcomeSuccess))).To(Equal(1.0))
		})

		It("challenges again when the browser changes", func() {
			trust(firefox)
			Expect(login(chrome).MFARequired()).To(BeTrue())
		})

		It("reports wrong credentials with throttle advice", func() {
			res, err := svc.Login(ctx, authflow.LoginRequest{Email: email, Password: "WrongPass123!.", UserAgent: firefox, IP: homeIP})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Authenticated()).To(BeFalse())
			Expect(res.FailureReason).To(Equal(auth.ReasonInvalidCredentials))
			Expect(res.User.FailedLoginAttempts()).To(Equal(1))
			Expect(res.Throttle.AttemptsRemaining).To(Equal(4))
			Expect(res.Throttle.Delay).To(Equal(time.Second))
			Expect(users.updates).To(Equal(1))
		})

		It("locks the account after five failures", func() {
			var res *authflow.LoginResult
			for range auth.LockoutThreshold {
				var err error
				res, err = svc.Login(ctx, authflow.LoginRequest{Email: email, Password: "WrongPass123!.", UserAgent: firefox, IP: homeIP})
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(res.User.IsLocked()).To(BeTrue())
			Expect(res.Throttle.IsLockedOut).To(BeTrue())

			res = login(firefox)
			Expect(res.FailureReason).To(Equal(auth.ReasonAccountLocked))
			Expect(res.User.FailedLoginAttempts()).To(Equal(auth.LockoutThreshold))
			Expect(testutil.ToFloat64(metrics.LoginAttempts.WithLabelValues(observability.OutcomeLocked))).To(Equal(2.0))
		})

		It("clears earlier failures on success", func() {
			_, err := svc.Login(ctx, authflow.LoginRequest{Email: email, Password: "WrongPass123!.", UserAgent: firefox, IP: homeIP})
			Expect(err).NotTo(HaveOccurred())

			res := login(firefox)
			Expect(res.User.FailedLoginAttempts()).To(BeZero())
		})

		It("reports an unknown email without a user", func() {
			res, err := svc.Login(ctx, authflow.LoginRequest{Email: "nobody@gatech.edu", Password: password, UserAgent: firefox, IP: homeIP})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.User).To(BeNil())
			Expect(res.FailureReason).To(Equal(auth.ReasonInvalidCredentials))
			Expect(res.Throttle).To(BeZero())
			Expect(users.updates).To(BeZero())
		})

		It("returns structural rejections as errors", func() {
			_, err := svc.Login(ctx, authflow.LoginRequest{Email: "not-an-email", Password: password, UserAgent: firefox, IP: homeIP})
			Expect(errutil.Code(err)).To(Equal("EMAIL_INVALID"))
			Expect(testutil.ToFloat64(metrics.LoginAttempts.WithLabelValues(observability.OutcomeRejected))).To(Equal(1.0))
		})

		It("rejects a malformed client address", func() {
			_, err := svc.Login(ctx, authflow.LoginRequest{Email: email, Password: password, UserAgent: firefox, IP: "999.1.1.1"})
			Expect(errutil.Domain(err)).To(Equal(errutil.DomainValidation))
		})

		It("surfaces history failures", func() {
			history.listErr = errDatabaseDown
			_, err := svc.Login(ctx, authflow.LoginRequest{Email: email, Password: password, UserAgent: firefox, IP: homeIP})
			Expect(err).To(MatchError(errDatabaseDown))
			Expect(testutil.ToFloat64(metrics.LoginAttempts.WithLabelValues(observability.OutcomeError))).To(Equal(1.0))
		})
	})

	Describe("CompleteMFA", func() {
		var challenge *authflow.MFAChallenge

		BeforeEach(func() {
			_, err := svc.Register(ctx, email, password)
			Expect(err).NotTo(HaveOccurred())
			challenge = login(firefox).Challenge
		})

		It("opens a session and remembers the context", func() {
			grant, err := svc.CompleteMFA(ctx, challenge, challenge.Token.Value().Int())
			Expect(err).NotTo(HaveOccurred())
			Expect(grant.Session.IsActive()).To(BeTrue())
			Expect(history.entries).To(HaveLen(1))
			Expect(history.entries[0].Equal(challenge.Context)).To(BeTrue())
			Expect(challenge.Token.IsRevoked()).To(BeTrue())
		})

		It("consumes the challenge on a wrong code", func() {
			wrong := (challenge.Token.Value().Int() + 1) % (credential.MaxOneTimeCode + 1)
			_, err := svc.CompleteMFA(ctx, challenge, wrong)
			Expect(errutil.Code(err)).To(Equal("MFA_CODE_MISMATCH"))

			_, err = svc.CompleteMFA(ctx, challenge, challenge.Token.Value().Int())
			Expect(errutil.Code(err)).To(Equal("TOKEN_NOT_VALID"))
			Expect(sessions.created).To(BeEmpty())
		})

		It("rejects an expired challenge", func() {
			clk.Advance(5 * time.Minute)
			_, err := svc.CompleteMFA(ctx, challenge, challenge.Token.Value().Int())
			Expect(errutil.Code(err)).To(Equal("TOKEN_NOT_VALID"))
		})

		It("rejects an out of range code", func() {
			_, err := svc.CompleteMFA(ctx, challenge, credential.MaxOneTimeCode+1)
			Expect(errutil.Code(err)).To(Equal("OTP_INVALID"))
			Expect(challenge.Token.IsActive()).To(BeTrue())
		})

		It("rejects a challenge it did not issue", func() {
			_, err := svc.CompleteMFA(ctx, &authflow.MFAChallenge{}, 123456)
			Expect(errutil.Code(err)).To(Equal("MFA_CHALLENGE_INVALID"))
		})
	})

	Describe("password reset", func() {
		BeforeEach(func() {
			_, err := svc.Register(ctx, email, password)
			Expect(err).NotTo(HaveOccurred())
		})

		It("issues a token and replaces the password with it", func() {
			raw, err := svc.RequestPasswordReset(ctx, email)
			Expect(err).NotTo(HaveOccurred())
			Expect(raw).To(HaveLen(64))

			Expect(svc.ResetPassword(ctx, raw, "BrandNew456?!")).To(Succeed())
			Expect(tokens.outstandingResets()).To(BeZero())

			res, err := svc.Login(ctx, authflow.LoginRequest{Email: email, Password: "BrandNew456?!", UserAgent: firefox, IP: homeIP})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.FailureReason).To(BeEmpty())
			Expect(res.MFARequired()).To(BeTrue())
		})

		It("refuses a used token", func() {
			raw, err := svc.RequestPasswordReset(ctx, email)
			Expect(err).NotTo(HaveOccurred())
			Expect(svc.ResetPassword(ctx, raw, "BrandNew456?!")).To(Succeed())

			err = svc.ResetPassword(ctx, raw, "Another789?!")
			Expect(errutil.Code(err)).To(Equal("TOKEN_NOT_VALID"))
		})

		It("refuses an expired token", func() {
			raw, err := svc.RequestPasswordReset(ctx, email)
			Expect(err).NotTo(HaveOccurred())
			clk.Advance(time.Hour)

			err = svc.ResetPassword(ctx, raw, "BrandNew456?!")
			Expect(errutil.Code(err)).To(Equal("TOKEN_NOT_VALID"))
		})

		It("throttles repeated requests silently", func() {
			first, err := svc.RequestPasswordReset(ctx, email)
			Expect(err).NotTo(HaveOccurred())
			Expect(first).NotTo(BeEmpty())

			clk.Advance(auth.PasswordResetCooldown - time.Second)
			second, err := svc.RequestPasswordReset(ctx, email)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(BeEmpty())

			clk.Advance(time.Second)
			third, err := svc.RequestPasswordReset(ctx, email)
			Expect(err).NotTo(HaveOccurred())
			Expect(third).NotTo(BeEmpty())
		})

		It("answers an unknown email like a known one", func() {
			raw, err := svc.RequestPasswordReset(ctx, "nobody@gatech.edu")
			Expect(err).NotTo(HaveOccurred())
			Expect(raw).To(BeEmpty())
		})

		It("checks the new password before the token", func() {
			err := svc.ResetPassword(ctx, "", "short")
			Expect(errutil.Domain(err)).To(Equal(errutil.DomainValidation))
			Expect(errutil.Code(err)).NotTo(Equal("TOKEN_VALUE_INVALID"))
		})

		It("stores nothing when revocation fails", func() {
			raw, err := svc.RequestPasswordReset(ctx, email)
			Expect(err).NotTo(HaveOccurred())
			updates := users.updates
			tokens.revokeErr = errDatabaseDown

			Expect(svc.ResetPassword(ctx, raw, "BrandNew456?!")).To(MatchError(errDatabaseDown))
			Expect(users.updates).To(Equal(updates))
		})
	})

	Describe("email verification", func() {
		BeforeEach(func() {
			_, err := svc.Register(ctx, email, password)
			Expect(err).NotTo(HaveOccurred())
		})

		It("verifies the owner of the token", func() {
			raw, err := svc.IssueVerification(ctx, email)
			Expect(err).NotTo(HaveOccurred())

			u, err := svc.ConfirmEmail(ctx, raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.IsVerified()).To(BeTrue())

			_, err = svc.IssueVerification(ctx, email)
			Expect(errutil.Code(err)).To(Equal("EMAIL_ALREADY_VERIFIED"))
		})

		It("rejects an empty token", func() {
			_, err := svc.ConfirmEmail(ctx, "")
			Expect(errutil.Code(err)).To(Equal("TOKEN_VALUE_INVALID"))
		})

		It("rejects an unknown token", func() {
			_, err := svc.ConfirmEmail(ctx, "no-such-token")
			Expect(err).To(MatchError(auth.ErrNotFound))
		})
	})

	Describe("session upkeep", func() {
		var grant *authflow.Grant

		sessionOps := func(operation, outcome string) float64 {
			return testutil.ToFloat64(metrics.SessionOps.WithLabelValues(operation, outcome))
		}

		BeforeEach(func() {
			_, err := svc.Register(ctx, email, password)
			Expect(err).NotTo(HaveOccurred())
			trust(firefox)
			grant = login(firefox).Grant
			Expect(grant).NotTo(BeNil())
		})

		Describe("Refresh", func() {
			It("rotates the token pair and extends the session", func() {
				clk.Advance(time.Hour)

				next, err := svc.Refresh(ctx, grant.RefreshToken.Value())
				Expect(err).NotTo(HaveOccurred())
				Expect(next.Session.ID()).To(Equal(grant.Session.ID()))
				Expect(next.RefreshToken.Value()).NotTo(Equal(grant.RefreshToken.Value()))
				Expect(next.AccessToken.OwnerID()).To(Equal(grant.Session.ID()))
				Expect(next.Session.ExpiresAt()).To(BeTemporally("==", clk.Now().Add(7*24*time.Hour)))
				Expect(next.Session.LastActivity()).To(BeTemporally("==", clk.Now()))
				Expect(grant.RefreshToken.IsRevoked()).To(BeTrue())

				_, err = svc.Authenticate(ctx, next.AccessToken.Value())
				Expect(err).NotTo(HaveOccurred())
				Expect(sessionOps(observability.OperationRefresh, observability.OutcomeSuccess)).To(Equal(1.0))
			})

			It("ends the session when a rotated token is presented again", func() {
				next, err := svc.Refresh(ctx, grant.RefreshToken.Value())
				Expect(err).NotTo(HaveOccurred())

				_, err = svc.Refresh(ctx, grant.RefreshToken.Value())
				Expect(errutil.Code(err)).To(Equal("TOKEN_NOT_VALID"))
				Expect(grant.Session.IsRevoked()).To(BeTrue())
				Expect(bearers.live(grant.Session.ID())).To(BeZero())

				_, err = svc.Refresh(ctx, next.RefreshToken.Value())
				Expect(errutil.Code(err)).To(Equal("TOKEN_NOT_VALID"))
				_, err = svc.Authenticate(ctx, next.AccessToken.Value())
				Expect(errutil.Code(err)).To(Equal("TOKEN_NOT_VALID"))
			})

			It("rejects an expired refresh token", func() {
				clk.Advance(8 * 24 * time.Hour)

				_, err := svc.Refresh(ctx, grant.RefreshToken.Value())
				Expect(errutil.Code(err)).To(Equal("TOKEN_NOT_VALID"))
				errutil.AssertErrorContext(GinkgoT(), err, "kind", "refresh")
				Expect(grant.RefreshToken.IsRevoked()).To(BeFalse())
				Expect(sessionOps(observability.OperationRefresh, observability.OutcomeRejected)).To(Equal(1.0))
			})

			It("rejects empty and unknown tokens", func() {
				_, err := svc.Refresh(ctx, "")
				Expect(errutil.Code(err)).To(Equal("TOKEN_VALUE_INVALID"))

				_, err = svc.Refresh(ctx, "no-such-token")
				Expect(err).To(MatchError(auth.ErrNotFound))
				Expect(grant.Session.IsActive()).To(BeTrue())
			})
		})

		Describe("Logout", func() {
			It("ends the session and revokes its tokens", func() {
				Expect(svc.Logout(ctx, grant.RefreshToken.Value())).To(Succeed())
				Expect(grant.Session.IsRevoked()).To(BeTrue())
				Expect(bearers.live(grant.Session.ID())).To(BeZero())

				_, err := svc.Authenticate(ctx, grant.AccessToken.Value())
				Expect(errutil.Code(err)).To(Equal("TOKEN_NOT_VALID"))

				Expect(svc.Logout(ctx, grant.RefreshToken.Value())).To(Succeed())
				Expect(sessionOps(observability.OperationLogout, observability.OutcomeSuccess)).To(Equal(2.0))
			})

			It("ignores empty and unknown tokens", func() {
				Expect(svc.Logout(ctx, "")).To(Succeed())
				Expect(svc.Logout(ctx, "no-such-token")).To(Succeed())
				Expect(grant.Session.IsActive()).To(BeTrue())
				Expect(sessionOps(observability.OperationLogout, observability.OutcomeRejected)).To(Equal(2.0))
			})

			It("surfaces storage failures", func() {
				sessions.getErr = errDatabaseDown
				Expect(svc.Logout(ctx, grant.RefreshToken.Value())).To(MatchError(errDatabaseDown))
				Expect(sessionOps(observability.OperationLogout, observability.OutcomeError)).To(Equal(1.0))
			})
		})

		Describe("Authenticate", func() {
			It("resolves the user and records activity", func() {
				clk.Advance(5 * time.Minute)
				updates := sessions.updates

				a, err := svc.Authenticate(ctx, grant.AccessToken.Value())
				Expect(err).NotTo(HaveOccurred())
				Expect(a.User.Email().String()).To(Equal(email))
				Expect(a.Session.ID()).To(Equal(grant.Session.ID()))
				Expect(a.Session.LastActivity()).To(BeTemporally("==", clk.Now()))
				Expect(a.Rotated).To(BeNil())
				Expect(sessions.updates).To(Equal(updates + 1))
			})

			It("rejects an expired access token", func() {
				clk.Advance(16 * time.Minute)

				_, err := svc.Authenticate(ctx, grant.AccessToken.Value())
				Expect(errutil.Code(err)).To(Equal("TOKEN_NOT_VALID"))
				Expect(sessionOps(observability.OperationAuthenticate, observability.OutcomeRejected)).To(Equal(1.0))
			})

			It("rejects a refresh token in place of an access token", func() {
				_, err := svc.Authenticate(ctx, grant.RefreshToken.Value())
				Expect(err).To(MatchError(auth.ErrNotFound))
			})
		})

		Describe("SilentAuth", func() {
			It("uses a valid access token", func() {
				a, err := svc.SilentAuth(ctx, grant.AccessToken.Value(), grant.RefreshToken.Value())
				Expect(err).NotTo(HaveOccurred())
				Expect(a.Rotated).To(BeNil())
				Expect(grant.RefreshToken.IsRevoked()).To(BeFalse())
				Expect(sessionOps(observability.OperationSilentAuth, observability.OutcomeSuccess)).To(Equal(1.0))
			})

			It("rotates the refresh token when the access token expired", func() {
				clk.Advance(20 * time.Minute)

				a, err := svc.SilentAuth(ctx, grant.AccessToken.Value(), grant.RefreshToken.Value())
				Expect(err).NotTo(HaveOccurred())
				Expect(a.User.Email().String()).To(Equal(email))
				Expect(a.Rotated).NotTo(BeNil())
				Expect(a.Rotated.Session.ID()).To(Equal(grant.Session.ID()))
				Expect(grant.RefreshToken.IsRevoked()).To(BeTrue())
				Expect(sessionOps(observability.OperationSilentAuth, observability.OutcomeRotated)).To(Equal(1.0))
			})

			It("rotates when only a refresh token is given", func() {
				a, err := svc.SilentAuth(ctx, "", grant.RefreshToken.Value())
				Expect(err).NotTo(HaveOccurred())
				Expect(a.Rotated).NotTo(BeNil())
			})

			It("rejects once the session is over", func() {
				clk.Advance(8 * 24 * time.Hour)

				_, err := svc.SilentAuth(ctx, grant.AccessToken.Value(), grant.RefreshToken.Value())
				Expect(errutil.Code(err)).To(Equal("TOKEN_NOT_VALID"))
				Expect(sessionOps(observability.OperationSilentAuth, observability.OutcomeRejected)).To(Equal(1.0))
			})

			It("returns storage failures", func() {
				sessions.getErr = errDatabaseDown

				_, err := svc.SilentAuth(ctx, grant.AccessToken.Value(), grant.RefreshToken.Value())
				Expect(err).To(MatchError(errDatabaseDown))
				Expect(grant.RefreshToken.IsRevoked()).To(BeFalse())
				Expect(sessionOps(observability.OperationSilentAuth, observability.OutcomeError)).To(Equal(1.0))
			})
		})
	})
})
