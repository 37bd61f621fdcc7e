// Package prayer holds the pure scheduling logic: classifying the current
// instant against today's prayer windows and resolving the next upcoming
// prayer. No storage, no platform calls; callers inject "now".
package prayer

import (
	"time"

	"github.com/minaretlabs/minaret/internal/model"
	"github.com/minaretlabs/minaret/internal/timeutil"
)

// DefaultIqamaDisplay is how long the iqama screen stays considered active
// after the iqama instant.
const DefaultIqamaDisplay = 6 * time.Minute

// Classify determines which prayer window the current instant falls into.
// Prayers are checked in daily order and the first match wins; sunrise is
// skipped since it has no iqama. iqamaWait is the adhan-to-iqama gap,
// display the length of the iqama window itself.
func Classify(timings model.PrayerTimings, timezone string, iqamaWait, display time.Duration, now time.Time) model.PrayerState {
	zoned := timeutil.NowInZone(now, timezone)

	for _, key := range model.CongregationalKeys {
		adhan, ok := timeutil.ParsePrayerTime(timings[key], zoned)
		if !ok {
			continue
		}
		iqama := adhan.Add(iqamaWait)

		if !zoned.Before(adhan) && zoned.Before(iqama) {
			return model.PrayerState{
				Mode:      model.StateWaitingIqama,
				PrayerKey: key,
				IqamaTime: iqama,
			}
		}
		if !zoned.Before(iqama) && zoned.Before(iqama.Add(display)) {
			return model.PrayerState{
				Mode:      model.StateIqamaActive,
				PrayerKey: key,
			}
		}
	}

	return model.PrayerState{Mode: model.StateNormal}
}
