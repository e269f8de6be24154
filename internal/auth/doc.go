// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package auth provides the user aggregate and the services that decide
// authentication outcomes.
//
// # Proofs
//
// Lockout state on a User only changes through proofs:
//   - SuccessfulAuthProof and FailedAuthProof are issued by LoginValidator
//   - RegistrationProof is issued by RegistrationValidator and consumed
//     once by UserFactory.Create
//
// Proof constructors are unexported, so no caller outside this package can
// fabricate one. A zero-value proof references no user and is rejected by
// every mutator. The validators never mutate the user themselves; the
// caller applies the proof and persists the result in one unit of work.
//
// # Services
//
//   - LoginValidator - structural, lookup, lock and credential gates
//   - RegistrationValidator - structural, similarity and uniqueness gates
//   - MFARiskService - decides whether a login context needs a second factor
//
// Services are created with New* constructors that validate dependencies.
package auth
