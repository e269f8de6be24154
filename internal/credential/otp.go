// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package credential

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/samber/oops"

	"github.com/holomush/authcore/pkg/errutil"
)

// MaxOneTimeCode is the largest six-digit code.
const MaxOneTimeCode = 999_999

// OneTimeCode is a six-digit numeric second-factor code.
type OneTimeCode struct {
	value int
}

// NewOneTimeCode validates that value is within [0, MaxOneTimeCode].
func NewOneTimeCode(value int) (OneTimeCode, error) {
	if value < 0 || value > MaxOneTimeCode {
		return OneTimeCode{}, oops.Code("OTP_INVALID").
			In(errutil.DomainValidation).
			With("value", value).
			Errorf("one-time code must be between 0 and %d", MaxOneTimeCode)
	}
	return OneTimeCode{value: value}, nil
}

// GenerateOneTimeCode draws a uniformly random code.
func GenerateOneTimeCode() (OneTimeCode, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(MaxOneTimeCode+1))
	if err != nil {
		return OneTimeCode{}, oops.Code("OTP_GENERATE_FAILED").Wrap(err)
	}
	return OneTimeCode{value: int(n.Int64())}, nil
}

// Int returns the numeric code.
func (c OneTimeCode) Int() int {
	return c.value
}

// String renders the code zero-padded to six digits.
func (c OneTimeCode) String() string {
	return fmt.Sprintf("%06d", c.value)
}

// Equal compares codes by value.
func (c OneTimeCode) Equal(other OneTimeCode) bool {
	return c.value == other.value
}
