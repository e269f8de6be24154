// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil

import (
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestingT is what the assertions need from a test. *testing.T and
// ginkgo's GinkgoT() both satisfy it.
type TestingT interface {
	require.TestingT
	Helper()
}

// AssertErrorCode asserts that err is an oops error carrying code.
func AssertErrorCode(t TestingT, err error, code string) {
	t.Helper()
	requireOops(t, err)
	assert.Equal(t, code, Code(err), "error: %v", err)
}

// AssertErrorDomain asserts that err is classified under domain. domain
// must be one of the authcore domains.
func AssertErrorDomain(t TestingT, err error, domain string) {
	t.Helper()
	require.Contains(t, Domains(), domain, "not an authcore error domain")
	requireOops(t, err)
	assert.Equal(t, domain, Domain(err), "error: %v", err)
}

// AssertErrorIs asserts the domain and code pair callers branch on.
func AssertErrorIs(t TestingT, err error, domain, code string) {
	t.Helper()
	AssertErrorDomain(t, err, domain)
	assert.Equal(t, code, Code(err), "error: %v", err)
}

// AssertErrorContext asserts that err carries key with value in its oops
// context, such as the user_id an adapter attached.
func AssertErrorContext(t TestingT, err error, key string, value any) {
	t.Helper()
	oopsErr := requireOops(t, err)
	ctx := oopsErr.Context()
	if assert.Contains(t, ctx, key) {
		assert.Equal(t, value, ctx[key])
	}
}

func requireOops(t TestingT, err error) oops.OopsError {
	t.Helper()
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T: %v", err, err)
	return oopsErr
}
