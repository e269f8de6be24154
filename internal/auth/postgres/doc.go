// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package postgres stores users, login history and sessions in PostgreSQL.
// Rows are restored through the domain factories, so malformed data is
// reported by the same checks that guard live input.
package postgres
