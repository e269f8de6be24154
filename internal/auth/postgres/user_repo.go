// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/clock"
	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/internal/store"
	"github.com/holomush/authcore/pkg/errutil"
)

const userColumns = `id::text, email, password_hash, verified, failed_login_attempts, created_at, updated_at, last_password_reset_at`

// UserRepository implements auth.UserRepository using PostgreSQL.
type UserRepository struct {
	pool  store.Pool
	users *auth.UserFactory
}

var _ auth.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a UserRepository that restores rows with users.
func NewUserRepository(pool store.Pool, users *auth.UserFactory) *UserRepository {
	return &UserRepository{pool: pool, users: users}
}

// FindByEmail returns the user registered with email, or an error wrapping
// auth.ErrNotFound.
func (r *UserRepository) FindByEmail(ctx context.Context, email identity.Email) (*auth.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email.String())
	u, err := r.scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "find user by email").Wrap(err)
	}
	return u, nil
}

// ExistsByEmail reports whether email is registered.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email identity.Email) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email.String()).Scan(&exists)
	if err != nil {
		return false, oops.Code("USER_QUERY_FAILED").
			In(errutil.DomainPersistence).
			With("operation", "check email exists").
			Wrap(err)
	}
	return exists, nil
}

// GetByID returns the user with id, or an error wrapping auth.ErrNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id identity.ID) (*auth.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id.String())
	u, err := r.scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").With("user_id", id.String()).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get user by id").With("user_id", id.String()).Wrap(err)
	}
	return u, nil
}

// Create inserts a newly registered user.
func (r *UserRepository) Create(ctx context.Context, u *auth.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, verified, failed_login_attempts, created_at, updated_at, last_password_reset_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		u.ID().String(),
		u.Email().String(),
		u.PasswordHash().Encoded(),
		u.IsVerified(),
		u.FailedLoginAttempts(),
		u.CreatedAt(),
		u.UpdatedAt(),
		u.LastPasswordResetAt(),
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return oops.Code("EMAIL_ALREADY_EXISTS").
			In(errutil.DomainConflict).
			Wrapf(err, "email already exists")
	}
	if err != nil {
		return oops.Code("USER_CREATE_FAILED").
			In(errutil.DomainPersistence).
			With("user_id", u.ID().String()).
			Wrap(err)
	}
	return nil
}

// Update writes the mutable state of u.
func (r *UserRepository) Update(ctx context.Context, u *auth.User) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $2, verified = $3, failed_login_attempts = $4, updated_at = $5, last_password_reset_at = $6
		WHERE id = $1
	`,
		u.ID().String(),
		u.PasswordHash().Encoded(),
		u.IsVerified(),
		u.FailedLoginAttempts(),
		u.UpdatedAt(),
		u.LastPasswordResetAt(),
	)
	if err != nil {
		return oops.Code("USER_UPDATE_FAILED").
			In(errutil.DomainPersistence).
			With("user_id", u.ID().String()).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").With("user_id", u.ID().String()).Wrap(auth.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) scanUser(row pgx.Row) (*auth.User, error) {
	var (
		rec                  auth.UserRecord
		createdAt, updatedAt time.Time
		lastReset            *time.Time
	)
	if err := row.Scan(
		&rec.ID, &rec.Email, &rec.PasswordHash, &rec.Verified, &rec.FailedLoginAttempts,
		&createdAt, &updatedAt, &lastReset,
	); err != nil {
		return nil, err
	}
	rec.CreatedAt = clock.FormatTimestamp(createdAt)
	rec.UpdatedAt = clock.FormatTimestamp(updatedAt)
	if lastReset != nil {
		s := clock.FormatTimestamp(*lastReset)
		rec.LastPasswordResetAt = &s
	}
	return r.users.Reconstitute(rec)
}
