// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package clock

import (
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/holomush/authcore/pkg/errutil"
)

// localDateTime is ISO-8601 date-time without an offset. Fractional
// seconds are optional when parsing.
const localDateTime = "2006-01-02T15:04:05.999999999"

// ParseTimestamp decodes a stored ISO-8601 date-time. Values carrying an
// offset are parsed as RFC 3339; values without one are taken as UTC.
// A bare date, a missing time component or an impossible calendar day
// is rejected.
func ParseTimestamp(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, oops.Code("TIMESTAMP_MALFORMED").
			In(errutil.DomainPersistence).
			Errorf("timestamp cannot be empty")
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}

	t, err := time.ParseInLocation(localDateTime, value, time.UTC)
	if err != nil {
		return time.Time{}, oops.Code("TIMESTAMP_MALFORMED").
			In(errutil.DomainPersistence).
			With("value", value).
			Wrapf(err, "unparseable timestamp")
	}
	return t, nil
}

// ParseOptionalTimestamp decodes a nullable stored timestamp.
func ParseOptionalTimestamp(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := ParseTimestamp(*raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatTimestamp encodes t in the form ParseTimestamp accepts.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
