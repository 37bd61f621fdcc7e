package prayer

import (
	"testing"
	"time"

	"github.com/minaretlabs/minaret/internal/model"
)

const testZone = "Asia/Riyadh"

func testTimings() model.PrayerTimings {
	return model.PrayerTimings{
		model.Fajr:    "05:00",
		model.Sunrise: "06:15",
		model.Dhuhr:   "12:00",
		model.Asr:     "15:30",
		model.Maghrib: "18:00",
		model.Isha:    "19:30",
	}
}

// at returns the given wall-clock time on 2025-03-10 (a Monday) in the test zone.
func at(t *testing.T, hour, min int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(testZone)
	if err != nil {
		t.Fatalf("loading %s: %v", testZone, err)
	}
	return time.Date(2025, 3, 10, hour, min, 0, 0, loc)
}

func TestClassifyWaitingIqama(t *testing.T) {
	now := at(t, 12, 10) // Dhuhr + 10m
	st := Classify(testTimings(), testZone, 25*time.Minute, DefaultIqamaDisplay, now)

	if st.Mode != model.StateWaitingIqama {
		t.Fatalf("mode = %s, want WAITING_IQAMA", st.Mode)
	}
	if st.PrayerKey != model.Dhuhr {
		t.Errorf("prayer = %s, want Dhuhr", st.PrayerKey)
	}
	wantIqama := at(t, 12, 25)
	if !st.IqamaTime.Equal(wantIqama) {
		t.Errorf("iqama time = %v, want %v", st.IqamaTime, wantIqama)
	}
}

func TestClassifyIqamaActive(t *testing.T) {
	now := at(t, 12, 26) // one minute into the iqama window
	st := Classify(testTimings(), testZone, 25*time.Minute, DefaultIqamaDisplay, now)

	if st.Mode != model.StateIqamaActive {
		t.Fatalf("mode = %s, want IQAMA_ACTIVE", st.Mode)
	}
	if st.PrayerKey != model.Dhuhr {
		t.Errorf("prayer = %s, want Dhuhr", st.PrayerKey)
	}
}

func TestClassifyNormalAfterDisplayWindow(t *testing.T) {
	now := at(t, 12, 32) // iqama window ended at 12:31
	st := Classify(testTimings(), testZone, 25*time.Minute, DefaultIqamaDisplay, now)

	if st.Mode != model.StateNormal {
		t.Fatalf("mode = %s, want NORMAL", st.Mode)
	}
}

func TestClassifyAdhanInstantStartsWaiting(t *testing.T) {
	now := at(t, 12, 0) // exactly at adhan
	st := Classify(testTimings(), testZone, 25*time.Minute, DefaultIqamaDisplay, now)

	if st.Mode != model.StateWaitingIqama || st.PrayerKey != model.Dhuhr {
		t.Fatalf("got %+v, want WAITING_IQAMA for Dhuhr", st)
	}
}

func TestClassifySunriseHasNoIqama(t *testing.T) {
	now := at(t, 6, 20) // shortly after sunrise
	st := Classify(testTimings(), testZone, 25*time.Minute, DefaultIqamaDisplay, now)

	if st.Mode != model.StateNormal {
		t.Fatalf("mode = %s, want NORMAL around sunrise", st.Mode)
	}
}
