package prayer

import (
	"time"

	"github.com/minaretlabs/minaret/internal/model"
	"github.com/minaretlabs/minaret/internal/timeutil"
)

// DisplayKey maps a timing key to its presentation identity: Dhuhr becomes
// Jumuah when the prayer falls on a Friday. Timing math never uses the
// result, only dispatched payloads do.
func DisplayKey(key string, at time.Time) string {
	if key == model.Dhuhr && at.Weekday() == time.Friday {
		return model.Jumuah
	}
	return key
}

// ResolveNext finds the next upcoming prayer strictly after now. Keys that
// fail to parse are skipped rather than aborting resolution. When all of
// today's prayers have passed, tomorrow's Fajr is returned.
func ResolveNext(timings model.PrayerTimings, timezone string, includeSunrise bool, now time.Time) (model.NextPrayer, bool) {
	zoned := timeutil.NowInZone(now, timezone)

	keys := model.CongregationalKeys
	if includeSunrise {
		keys = model.AllKeys
	}

	for _, key := range keys {
		at, ok := timeutil.ParsePrayerTime(timings[key], zoned)
		if !ok {
			continue
		}
		if at.After(zoned) {
			return model.NextPrayer{
				Key:        key,
				DisplayKey: DisplayKey(key, at),
				Time:       at,
			}, true
		}
	}

	// Today is exhausted: wrap to tomorrow's Fajr.
	fajr, ok := timeutil.ParsePrayerTime(timings[model.Fajr], zoned)
	if !ok {
		return model.NextPrayer{}, false
	}
	fajr = fajr.AddDate(0, 0, 1)
	return model.NextPrayer{
		Key:        model.Fajr,
		DisplayKey: model.Fajr,
		Time:       fajr,
	}, true
}
