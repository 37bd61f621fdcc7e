package prayer

import (
	"testing"
	"time"

	"github.com/minaretlabs/minaret/internal/model"
)

func TestResolveNextMidday(t *testing.T) {
	now := at(t, 12, 30)
	next, ok := ResolveNext(testTimings(), testZone, false, now)
	if !ok {
		t.Fatal("expected a next prayer")
	}
	if next.Key != model.Asr {
		t.Errorf("key = %s, want Asr", next.Key)
	}
	if want := at(t, 15, 30); !next.Time.Equal(want) {
		t.Errorf("time = %v, want %v", next.Time, want)
	}
}

func TestResolveNextIncludesSunrise(t *testing.T) {
	now := at(t, 5, 30)

	next, ok := ResolveNext(testTimings(), testZone, true, now)
	if !ok || next.Key != model.Sunrise {
		t.Fatalf("with sunrise enabled got %+v, want Sunrise", next)
	}

	next, ok = ResolveNext(testTimings(), testZone, false, now)
	if !ok || next.Key != model.Dhuhr {
		t.Fatalf("with sunrise disabled got %+v, want Dhuhr", next)
	}
}

func TestResolveNextWrapsToTomorrowFajr(t *testing.T) {
	now := at(t, 23, 50)
	next, ok := ResolveNext(testTimings(), testZone, false, now)
	if !ok {
		t.Fatal("expected a next prayer")
	}
	if next.Key != model.Fajr {
		t.Errorf("key = %s, want Fajr", next.Key)
	}
	want := at(t, 5, 0).AddDate(0, 0, 1)
	if !next.Time.Equal(want) {
		t.Errorf("time = %v, want tomorrow %v", next.Time, want)
	}
}

func TestResolveNextSkipsMalformedKeys(t *testing.T) {
	timings := testTimings()
	timings[model.Asr] = "not a time"

	now := at(t, 12, 30)
	next, ok := ResolveNext(timings, testZone, false, now)
	if !ok || next.Key != model.Maghrib {
		t.Fatalf("got %+v, want Maghrib after skipping malformed Asr", next)
	}
}

func TestResolveNextFridayRelabelsDhuhr(t *testing.T) {
	loc, err := time.LoadLocation(testZone)
	if err != nil {
		t.Fatalf("loading %s: %v", testZone, err)
	}
	// 2025-03-14 is a Friday.
	now := time.Date(2025, 3, 14, 11, 0, 0, 0, loc)

	next, ok := ResolveNext(testTimings(), testZone, false, now)
	if !ok {
		t.Fatal("expected a next prayer")
	}
	if next.Key != model.Dhuhr {
		t.Errorf("timing key = %s, want Dhuhr", next.Key)
	}
	if next.DisplayKey != model.Jumuah {
		t.Errorf("display key = %s, want Jumuah", next.DisplayKey)
	}
	want := time.Date(2025, 3, 14, 12, 0, 0, 0, loc)
	if !next.Time.Equal(want) {
		t.Errorf("time = %v, want %v (identical to a plain Dhuhr)", next.Time, want)
	}
}

func TestDisplayKeyNonFriday(t *testing.T) {
	if got := DisplayKey(model.Dhuhr, at(t, 12, 0)); got != model.Dhuhr {
		t.Errorf("DisplayKey on Monday = %s, want Dhuhr", got)
	}
	if got := DisplayKey(model.Asr, at(t, 15, 30)); got != model.Asr {
		t.Errorf("DisplayKey(Asr) = %s, want Asr", got)
	}
}
