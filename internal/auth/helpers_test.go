// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/clock"
	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/identity"
)

const (
	testEmail    = "mohamed@gatech.edu"
	testPassword = "SecurePass123!."
)

var epoch = time.Date(2025, 12, 27, 13, 45, 0, 0, time.UTC)

// prefixHasher marks hashes with a prefix so tests can reason about them
// without running a real KDF.
type prefixHasher struct {
	verifyCalls int
}

func (h *prefixHasher) Hash(raw string) (string, error) {
	return "hashed:" + raw, nil
}

func (h *prefixHasher) Verify(raw, hashed string) (bool, error) {
	h.verifyCalls++
	return hashed == "hashed:"+raw, nil
}

func (h *prefixHasher) IsAlreadyHashed(candidate string) bool {
	return strings.HasPrefix(candidate, "hashed:")
}

// mockUserRepo is an in-memory UserRepository.
type mockUserRepo struct {
	users map[string]*auth.User
	err   error
	finds int
}

func newMockUserRepo(users ...*auth.User) *mockUserRepo {
	repo := &mockUserRepo{users: make(map[string]*auth.User)}
	for _, u := range users {
		repo.users[u.Email().String()] = u
	}
	return repo
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email identity.Email) (*auth.User, error) {
	m.finds++
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[email.String()]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email identity.Email) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.users[email.String()]
	return ok, nil
}

type fixture struct {
	clock   *clock.Manual
	hasher  *prefixHasher
	factory *auth.UserFactory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := clock.NewManual(epoch)
	h := &prefixHasher{}
	f, err := auth.NewUserFactory(h, c)
	require.NoError(t, err)
	return &fixture{clock: c, hasher: h, factory: f}
}

func (fx *fixture) newUser(t *testing.T, rawEmail string) *auth.User {
	t.Helper()
	email, err := identity.ParseEmail(rawEmail)
	require.NoError(t, err)
	password, err := credential.ParsePassword(testPassword)
	require.NoError(t, err)
	u, err := fx.factory.Create(auth.NewRegistrationProofForTest(email, password))
	require.NoError(t, err)
	return u
}
