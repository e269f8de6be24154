// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/auth/postgres"
	"github.com/holomush/authcore/internal/authflow"
	"github.com/holomush/authcore/internal/clock"
	"github.com/holomush/authcore/internal/config"
	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/observability"
	"github.com/holomush/authcore/internal/session"
	"github.com/holomush/authcore/internal/store"
	"github.com/holomush/authcore/internal/token"
	"github.com/holomush/authcore/internal/useragent"
	"github.com/holomush/authcore/pkg/errutil"
)

const metricsExportTimeout = 5 * time.Second

// accountService is the part of authflow.Service the user commands call.
type accountService interface {
	Register(ctx context.Context, email, password string) (*auth.User, error)
	Login(ctx context.Context, req authflow.LoginRequest) (*authflow.LoginResult, error)
	CompleteMFA(ctx context.Context, challenge *authflow.MFAChallenge, code int) (*authflow.Grant, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, rawToken, password string) error
	IssueVerification(ctx context.Context, email string) (string, error)
	ConfirmEmail(ctx context.Context, rawToken string) (*auth.User, error)
	Refresh(ctx context.Context, rawRefresh string) (*authflow.Grant, error)
	Logout(ctx context.Context, rawRefresh string) error
	SilentAuth(ctx context.Context, rawAccess, rawRefresh string) (*authflow.Authentication, error)
}

type serviceOpener func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (accountService, func(), error)

// openService connects to PostgreSQL and wires an authflow.Service over it.
func openService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (accountService, func(), error) {
	pool, err := store.Connect(ctx, cfg.Database.URL, cfg.Database.ConnectAttempts)
	if err != nil {
		return nil, nil, err
	}

	hasher := credential.NewArgon2idHasher(cfg.Argon2Params())
	clk := clock.System{}
	users, err := auth.NewUserFactory(hasher, clk)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	parser := useragent.NewParser()
	contexts, err := auth.NewLoginContextFactory(parser)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	tokens := token.NewFactory(clk)
	reg, metrics := observability.NewRegistry()
	svc, err := authflow.NewService(authflow.Deps{
		Users:         postgres.NewUserRepository(pool, users),
		History:       postgres.NewLoginHistoryRepository(pool, contexts),
		Sessions:      postgres.NewSessionRepository(pool, session.NewFactory(clk)),
		Tokens:        postgres.NewAccountTokenRepository(pool, tokens),
		SessionTokens: postgres.NewSessionTokenRepository(pool, tokens),
		Hasher:        hasher,
		UserAgents:    parser,
		Clock:         clk,
		Metrics:       metrics,
		Logger:        logger,
	}, policyFromConfig(cfg))
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	closeFn := func() {
		exportMetrics(context.WithoutCancel(ctx), reg, cfg, logger)
		pool.Close()
	}
	return svc, closeFn, nil
}

// exportMetrics leaves the command's metrics wherever the config points.
// Failures are logged and do not fail the command.
func exportMetrics(ctx context.Context, g prometheus.Gatherer, cfg *config.Config, logger *slog.Logger) {
	opts := observability.ExportOptions{
		TextfilePath: cfg.Metrics.Textfile,
		PushURL:      cfg.Metrics.PushURL,
		Job:          cfg.Metrics.Job,
	}
	if !opts.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, metricsExportTimeout)
	defer cancel()
	if err := observability.Export(ctx, g, opts); err != nil {
		errutil.LogError(logger, "metrics export failed", err)
	}
}

func policyFromConfig(cfg *config.Config) authflow.Policy {
	return authflow.Policy{
		AccessTTL:        cfg.TTL.Access.Std(),
		RefreshTTL:       cfg.TTL.Refresh.Std(),
		MFATTL:           cfg.TTL.MFA.Std(),
		VerificationTTL:  cfg.TTL.Verification.Std(),
		PasswordResetTTL: cfg.TTL.PasswordReset.Std(),
		SessionTTL:       cfg.TTL.Session.Std(),
		HistoryLimit:     cfg.Login.HistoryLimit,
	}
}

// NewUserCmd creates the user command group.
func NewUserCmd() *cobra.Command {
	return newUserCmd(openService)
}

func newUserCmd(open serviceOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Register or log in accounts",
	}
	cmd.AddCommand(newRegisterCmd(open))
	cmd.AddCommand(newLoginCmd(open))
	cmd.AddCommand(newRequestResetCmd(open))
	cmd.AddCommand(newResetPasswordCmd(open))
	cmd.AddCommand(newIssueVerificationCmd(open))
	cmd.AddCommand(newConfirmEmailCmd(open))
	cmd.AddCommand(newRefreshCmd(open))
	cmd.AddCommand(newLogoutCmd(open))
	cmd.AddCommand(newWhoamiCmd(open))
	return cmd
}

func newRegisterCmd(open serviceOpener) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register an account; the password is read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readLine(bufio.NewReader(cmd.InOrStdin()), "password")
			if err != nil {
				return err
			}
			return withService(cmd, open, func(ctx context.Context, svc accountService) error {
				u, err := svc.Register(ctx, email, password)
				if err != nil {
					return err
				}
				cmd.Printf("Registered %s (%s)\n", u.Email(), u.ID())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLoginCmd(open serviceOpener) *cobra.Command {
	var (
		email     string
		userAgent string
		ip        string
		showCode  bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in an account; the password and any one-time code are read from stdin",
		Long: `Log in an account. The first stdin line is the password. When the login
context is new, a one-time code is issued and the next stdin line must carry
it. --show-code prints the code to stderr, standing in for delivery.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			password, err := readLine(in, "password")
			if err != nil {
				return err
			}
			return withService(cmd, open, func(ctx context.Context, svc accountService) error {
				res, err := svc.Login(ctx, authflow.LoginRequest{
					Email:     email,
					Password:  password,
					UserAgent: userAgent,
					IP:        ip,
				})
				if err != nil {
					return err
				}

				grant := res.Grant
				switch {
				case res.MFARequired():
					if showCode {
						cmd.PrintErrf("One-time code: %s\n", res.Challenge.Token.Value())
					}
					cmd.PrintErrln("One-time code required")
					line, err := readLine(in, "one-time code")
					if err != nil {
						return err
					}
					code, err := strconv.Atoi(strings.TrimSpace(line))
					if err != nil {
						return oops.Code("OTP_INVALID").With("input", line).Errorf("one-time code must be numeric")
					}
					grant, err = svc.CompleteMFA(ctx, res.Challenge, code)
					if err != nil {
						return err
					}
				case !res.Authenticated():
					return loginFailure(cmd, res)
				}

				printGrant(cmd, grant)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&userAgent, "user-agent", "authcore-cli/"+version, "User-Agent recorded for the login")
	cmd.Flags().StringVar(&ip, "ip", "127.0.0.1", "client IP recorded for the login")
	cmd.Flags().BoolVar(&showCode, "show-code", false, "print the one-time code to stderr")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newRequestResetCmd(open serviceOpener) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "request-reset",
		Short: "Issue a password reset token and print it",
		Long: `Issue a password reset token and print it for delivery. Nothing is
printed for an unknown email or while the reset cooldown is running.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, open, func(ctx context.Context, svc accountService) error {
				raw, err := svc.RequestPasswordReset(ctx, email)
				if err != nil {
					return err
				}
				if raw != "" {
					cmd.Println(raw)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newResetPasswordCmd(open serviceOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password; stdin carries the reset token, then the password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			raw, err := readLine(in, "reset token")
			if err != nil {
				return err
			}
			password, err := readLine(in, "password")
			if err != nil {
				return err
			}
			return withService(cmd, open, func(ctx context.Context, svc accountService) error {
				if err := svc.ResetPassword(ctx, strings.TrimSpace(raw), password); err != nil {
					return err
				}
				cmd.Println("Password changed")
				return nil
			})
		},
	}
}

func newIssueVerificationCmd(open serviceOpener) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "issue-verification",
		Short: "Issue an email verification token and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, open, func(ctx context.Context, svc accountService) error {
				raw, err := svc.IssueVerification(ctx, email)
				if err != nil {
					return err
				}
				cmd.Println(raw)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newConfirmEmailCmd(open serviceOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm-email",
		Short: "Confirm an email address with the verification token read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readLine(bufio.NewReader(cmd.InOrStdin()), "verification token")
			if err != nil {
				return err
			}
			return withService(cmd, open, func(ctx context.Context, svc accountService) error {
				u, err := svc.ConfirmEmail(ctx, strings.TrimSpace(raw))
				if err != nil {
					return err
				}
				cmd.Printf("Verified %s\n", u.Email())
				return nil
			})
		},
	}
}

func newRefreshCmd(open serviceOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Rotate the tokens of a session with the refresh token read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readLine(bufio.NewReader(cmd.InOrStdin()), "refresh token")
			if err != nil {
				return err
			}
			return withService(cmd, open, func(ctx context.Context, svc accountService) error {
				grant, err := svc.Refresh(ctx, strings.TrimSpace(raw))
				if err != nil {
					return err
				}
				printGrant(cmd, grant)
				return nil
			})
		},
	}
}

func newLogoutCmd(open serviceOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session of the refresh token read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readLine(bufio.NewReader(cmd.InOrStdin()), "refresh token")
			if err != nil {
				return err
			}
			return withService(cmd, open, func(ctx context.Context, svc accountService) error {
				if err := svc.Logout(ctx, strings.TrimSpace(raw)); err != nil {
					return err
				}
				cmd.Println("Logged out")
				return nil
			})
		},
	}
}

func newWhoamiCmd(open serviceOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account behind an access token read from stdin",
		Long: `Show the account behind a bearer token. The first stdin line is the access
token and may be empty. An optional second line carries a refresh token, which
is rotated when the access token is missing or no longer valid; the new pair is
printed then.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			access, err := readLine(in, "access token")
			if err != nil {
				return err
			}
			refresh, err := readOptionalLine(in)
			if err != nil {
				return err
			}
			return withService(cmd, open, func(ctx context.Context, svc accountService) error {
				a, err := svc.SilentAuth(ctx, strings.TrimSpace(access), strings.TrimSpace(refresh))
				if err != nil {
					return err
				}
				cmd.Printf("User:          %s (%s)\n", a.User.Email(), a.User.ID())
				if a.Rotated != nil {
					printGrant(cmd, a.Rotated)
					return nil
				}
				cmd.Printf("Session:       %s\n", a.Session.ID())
				cmd.Printf("Expires:       %s\n", clock.FormatTimestamp(a.Session.ExpiresAt()))
				return nil
			})
		},
	}
}

func printGrant(cmd *cobra.Command, grant *authflow.Grant) {
	cmd.Printf("Session:       %s\n", grant.Session.ID())
	cmd.Printf("Expires:       %s\n", clock.FormatTimestamp(grant.Session.ExpiresAt()))
	cmd.Printf("Access token:  %s\n", grant.AccessToken.Value())
	cmd.Printf("Refresh token: %s\n", grant.RefreshToken.Value())
}

// readOptionalLine is readLine for a trailing line that may be absent.
func readOptionalLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", oops.Code("INPUT_MISSING").Wrapf(err, "read stdin")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func loginFailure(cmd *cobra.Command, res *authflow.LoginResult) error {
	builder := oops.Code("LOGIN_FAILED").With("reason", string(res.FailureReason))
	if res.User == nil {
		return builder.Errorf("login failed: %s", res.FailureReason)
	}
	t := res.Throttle
	switch {
	case t.IsLockedOut:
		cmd.PrintErrln("Account is locked")
	default:
		cmd.PrintErrf("%d attempt(s) remaining; retry after %s\n", t.AttemptsRemaining, t.Delay)
	}
	return builder.With("attempts_remaining", t.AttemptsRemaining).Errorf("login failed: %s", res.FailureReason)
}

func withService(cmd *cobra.Command, open serviceOpener, fn func(context.Context, accountService) error) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, closeFn, err := open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(ctx, svc)
}
