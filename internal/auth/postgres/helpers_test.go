// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/clock"
	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/internal/session"
	"github.com/holomush/authcore/internal/token"
	"github.com/holomush/authcore/internal/useragent"
)

var epoch = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

type prefixHasher struct{}

func (prefixHasher) Hash(raw string) (string, error)         { return "hashed:" + raw, nil }
func (prefixHasher) Verify(raw, hashed string) (bool, error) { return hashed == "hashed:"+raw, nil }
func (prefixHasher) IsAlreadyHashed(c string) bool           { return strings.HasPrefix(c, "hashed:") }

type noUsers struct{}

func (noUsers) FindByEmail(context.Context, identity.Email) (*auth.User, error) {
	return nil, auth.ErrNotFound
}

func (noUsers) ExistsByEmail(context.Context, identity.Email) (bool, error) { return false, nil }

type factories struct {
	clock    *clock.Manual
	users    *auth.UserFactory
	contexts *auth.LoginContextFactory
	sessions *session.Factory
	tokens   *token.Factory
}

func newFactories(t *testing.T) factories {
	t.Helper()
	c := clock.NewManual(epoch)
	users, err := auth.NewUserFactory(prefixHasher{}, c)
	require.NoError(t, err)
	contexts, err := auth.NewLoginContextFactory(useragent.NewParser())
	require.NoError(t, err)
	return factories{
		clock:    c,
		users:    users,
		contexts: contexts,
		sessions: session.NewFactory(c),
		tokens:   token.NewFactory(c),
	}
}

func (f factories) register(t *testing.T, rawEmail string) *auth.User {
	t.Helper()
	v, err := auth.NewRegistrationValidator(noUsers{}, nil)
	require.NoError(t, err)
	proof, err := v.ValidateForRegistration(context.Background(), rawEmail, "SecurePass123!.")
	require.NoError(t, err)
	u, err := f.users.Create(proof)
	require.NoError(t, err)
	return u
}
