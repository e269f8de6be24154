// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package observability provides Prometheus metrics for authentication
// outcomes.
package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Outcome labels.
const (
	OutcomeSuccess     = "success"
	OutcomeMFARequired = "mfa_required"
	OutcomeInvalid     = "invalid_credentials"
	OutcomeLocked      = "locked"
	OutcomeRejected    = "rejected"
	OutcomeError       = "error"
	OutcomeRegistered  = "registered"
	OutcomeEmailTaken  = "email_taken"
	OutcomeRotated     = "rotated"
)

// Session operation labels.
const (
	OperationRefresh      = "refresh"
	OperationLogout       = "logout"
	OperationAuthenticate = "authenticate"
	OperationSilentAuth   = "silent_auth"
)

// Metrics counts authentication outcomes.
type Metrics struct {
	LoginAttempts *prometheus.CounterVec
	MFAChallenges *prometheus.CounterVec
	Registrations *prometheus.CounterVec
	SessionOps    *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LoginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authcore_login_attempts_total",
				Help: "Total number of login attempts by outcome",
			},
			[]string{"outcome"},
		),
		MFAChallenges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authcore_mfa_challenges_total",
				Help: "Total number of MFA risk decisions by result",
			},
			[]string{"required"},
		),
		Registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authcore_registrations_total",
				Help: "Total number of registration attempts by outcome",
			},
			[]string{"outcome"},
		),
		SessionOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authcore_session_operations_total",
				Help: "Total number of refresh, logout and token authentication calls by outcome",
			},
			[]string{"operation", "outcome"},
		),
	}

	reg.MustRegister(m.LoginAttempts)
	reg.MustRegister(m.MFAChallenges)
	reg.MustRegister(m.Registrations)
	reg.MustRegister(m.SessionOps)
	return m
}

// NewRegistry returns a registry with the Go runtime collector and the
// authentication counters.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	return reg, NewMetrics(reg)
}

// LoginAttempt counts a login by outcome.
func (m *Metrics) LoginAttempt(outcome string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

// MFADecision counts a risk decision.
func (m *Metrics) MFADecision(required bool) {
	if m == nil {
		return
	}
	m.MFAChallenges.WithLabelValues(strconv.FormatBool(required)).Inc()
}

// Registration counts a registration by outcome.
func (m *Metrics) Registration(outcome string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(outcome).Inc()
}

// SessionOperation counts a refresh, logout or token authentication.
func (m *Metrics) SessionOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.SessionOps.WithLabelValues(operation, outcome).Inc()
}
