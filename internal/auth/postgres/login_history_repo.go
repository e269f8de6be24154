// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/internal/store"
	"github.com/holomush/authcore/pkg/errutil"
)

// LoginHistoryRepository stores the login contexts that MFA risk is
// judged against. Each distinct context has one row. Row IDs are ULIDs,
// reissued on every sighting, so newest-first ordering is by ID.
type LoginHistoryRepository struct {
	pool     store.Pool
	contexts *auth.LoginContextFactory
}

// NewLoginHistoryRepository creates a LoginHistoryRepository.
func NewLoginHistoryRepository(pool store.Pool, contexts *auth.LoginContextFactory) *LoginHistoryRepository {
	return &LoginHistoryRepository{pool: pool, contexts: contexts}
}

// Record adds lc to the user's history, or marks an equal context as the
// most recently seen one.
func (r *LoginHistoryRepository) Record(ctx context.Context, lc auth.LoginContext) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO login_history (id, user_id, user_agent, os, browser, device, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, os, browser, device, ip_address)
		DO UPDATE SET id = EXCLUDED.id, user_agent = EXCLUDED.user_agent, last_seen_at = NOW()
	`,
		ulid.Make().String(),
		lc.UserID().String(),
		lc.UserAgent().Raw(),
		lc.OS(),
		lc.Browser(),
		lc.Device(),
		lc.IP().String(),
	)
	if err != nil {
		return oops.Code("LOGIN_HISTORY_RECORD_FAILED").
			In(errutil.DomainPersistence).
			With("user_id", lc.UserID().String()).
			Wrap(err)
	}
	return nil
}

// ListByUser returns up to limit of the user's most recent login contexts.
func (r *LoginHistoryRepository) ListByUser(ctx context.Context, userID identity.ID, limit int) ([]auth.LoginContext, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id::text, user_agent, os, browser, device, ip_address
		FROM login_history
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2
	`, userID.String(), limit)
	if err != nil {
		return nil, oops.Code("LOGIN_HISTORY_QUERY_FAILED").
			In(errutil.DomainPersistence).
			With("user_id", userID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var history []auth.LoginContext
	for rows.Next() {
		var uid, ua, os, browser, device, ip string
		if err := rows.Scan(&uid, &ua, &os, &browser, &device, &ip); err != nil {
			return nil, oops.Code("LOGIN_HISTORY_SCAN_FAILED").
				In(errutil.DomainPersistence).
				With("user_id", userID.String()).
				Wrap(err)
		}
		lc, err := r.contexts.Reconstitute(uid, ua, os, browser, device, ip)
		if err != nil {
			return nil, oops.With("user_id", userID.String()).Wrap(err)
		}
		history = append(history, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("LOGIN_HISTORY_QUERY_FAILED").
			In(errutil.DomainPersistence).
			With("operation", "iterate login history").
			Wrap(err)
	}
	return history, nil
}
