// Package timeutil converts prayer-time strings and timezone names into
// absolute instants. Everything here is pure: callers pass "now" in, so the
// scheduler can run against an injected clock in tests.
package timeutil

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Zone resolves a timezone identifier, falling back to the device's local
// zone when the identifier is invalid or empty. An approximate clock is
// better than no scheduling at all, so this never fails.
func Zone(timezone string) *time.Location {
	if timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Warn().Str("timezone", timezone).Err(err).Msg("unknown timezone, using device clock")
		return time.Local
	}
	return loc
}

// NowInZone returns the given instant viewed in the target timezone,
// degrading to the device's local zone on a bad identifier.
func NowInZone(now time.Time, timezone string) time.Time {
	return now.In(Zone(timezone))
}

// ParsePrayerTime turns an "HH:MM[:SS][ suffix]" wall-clock string into an
// absolute instant on the same calendar day as ref, in ref's timezone.
// A trailing suffix such as "(EET)" is stripped. Returns ok=false on a
// malformed or empty string instead of an error: resolver callers skip the
// key and move on.
func ParsePrayerTime(s string, ref time.Time) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	clean, _, _ := strings.Cut(strings.TrimSpace(s), " ")

	var clock time.Time
	var err error
	if strings.Count(clean, ":") == 2 {
		clock, err = time.Parse("15:04:05", clean)
	} else {
		clock, err = time.Parse("15:04", clean)
	}
	if err != nil {
		return time.Time{}, false
	}

	y, m, d := ref.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, ref.Location()), true
}
