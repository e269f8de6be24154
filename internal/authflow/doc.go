// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package authflow runs registration and login end to end: validation,
// proof application, persistence, MFA risk and session issuance.
//
// The domain packages decide; this package only sequences their decisions
// and stores the results.
package authflow
