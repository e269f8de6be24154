// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"time"
)

// Rate limiting configuration.
const (
	// LockoutThreshold is the number of failures that locks an account.
	LockoutThreshold = 5

	// CaptchaThreshold is the number of failures that triggers CAPTCHA requirement (web only).
	CaptchaThreshold = 3

	// maxDelay caps the progressive delay.
	maxDelay = 8 * time.Second
)

// Throttle is advice for the transport layer derived from a failure count.
// It does not affect the lockout decision, which LoginValidator makes.
type Throttle struct {
	// Delay is the time to wait before allowing another attempt.
	Delay time.Duration

	// RequiresCaptcha indicates the web client should require CAPTCHA.
	RequiresCaptcha bool

	// IsLockedOut indicates the account is locked.
	IsLockedOut bool

	// AttemptsRemaining is the number of failures left before lockout.
	AttemptsRemaining int
}

// CheckFailures evaluates the throttle state for a failure count.
func CheckFailures(failures int) Throttle {
	if failures < 0 {
		failures = 0
	}
	if failures >= LockoutThreshold {
		return Throttle{IsLockedOut: true}
	}

	result := Throttle{AttemptsRemaining: LockoutThreshold - failures}

	// Progressive delay: 2^(failures-1) seconds
	if failures > 0 {
		result.Delay = time.Duration(1<<(failures-1)) * time.Second
		if result.Delay > maxDelay {
			result.Delay = maxDelay
		}
	}

	if failures >= CaptchaThreshold {
		result.RequiresCaptcha = true
	}

	return result
}
