// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package identity

import (
	"net/netip"
	"strings"

	"github.com/samber/oops"

	"github.com/holomush/authcore/pkg/errutil"
)

// IPAddress is a validated IPv4 or IPv6 address held in canonical form,
// so differently written literals of one address compare equal.
type IPAddress struct {
	value string
	addr  netip.Addr
}

// ParseIPAddress trims raw and accepts dotted-quad IPv4 or an IPv6
// literal. Zoned IPv6 addresses are rejected and IPv4-mapped IPv6
// addresses are unmapped.
func ParseIPAddress(raw string) (IPAddress, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return IPAddress{}, oops.Code("IP_INVALID").
			In(errutil.DomainValidation).
			Errorf("ip address cannot be empty")
	}
	addr, err := netip.ParseAddr(value)
	if err != nil || addr.Zone() != "" {
		return IPAddress{}, oops.Code("IP_INVALID").
			In(errutil.DomainValidation).
			With("value", value).
			Errorf("invalid ip address")
	}
	addr = addr.Unmap()
	return IPAddress{value: addr.String(), addr: addr}, nil
}

// String returns the canonical text form (RFC 5952 for IPv6).
func (ip IPAddress) String() string {
	return ip.value
}

// Addr returns the parsed address.
func (ip IPAddress) Addr() netip.Addr {
	return ip.addr
}

// Is4 reports whether the address is IPv4.
func (ip IPAddress) Is4() bool {
	return ip.addr.Is4()
}

// IsZero reports whether ip was never assigned.
func (ip IPAddress) IsZero() bool {
	return ip.value == ""
}

// Equal reports whether both hold the same address.
func (ip IPAddress) Equal(other IPAddress) bool {
	return ip.addr == other.addr
}
