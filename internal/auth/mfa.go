// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"github.com/samber/oops"

	"github.com/holomush/authcore/pkg/errutil"
)

// MFARiskService decides when a login needs a second factor.
type MFARiskService struct{}

// NewMFARiskService creates an MFARiskService.
func NewMFARiskService() *MFARiskService {
	return &MFARiskService{}
}

// IsMFARequired reports whether current differs from every entry in
// history. An empty history always requires MFA.
func (s *MFARiskService) IsMFARequired(history []LoginContext, current *LoginContext) (bool, error) {
	if current == nil {
		return false, oops.Code("MFA_CURRENT_MISSING").
			In(errutil.DomainProtocol).
			Errorf("current login context is required")
	}
	for _, seen := range history {
		if seen.Equal(*current) {
			return false, nil
		}
	}
	return true, nil
}
