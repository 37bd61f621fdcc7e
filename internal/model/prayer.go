package model

import "time"

// Timing keys as delivered by the Aladhan API.
const (
	Fajr    = "Fajr"
	Sunrise = "Sunrise"
	Dhuhr   = "Dhuhr"
	Asr     = "Asr"
	Maghrib = "Maghrib"
	Isha    = "Isha"

	// Jumuah is a presentation alias for Dhuhr on Fridays. Timing math
	// always uses Dhuhr; only dispatched payloads carry this key.
	Jumuah = "Jumuah"
)

// CongregationalKeys lists the prayers that have an iqama, in daily order.
// Sunrise is excluded: it marks the end of Fajr time, not a congregation.
var CongregationalKeys = []string{Fajr, Dhuhr, Asr, Maghrib, Isha}

// AllKeys lists every timing key in daily order, sunrise included.
var AllKeys = []string{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// PrayerTimings maps a timing key to its "HH:MM" wall-clock string for the
// current calendar day, e.g. {"Fajr": "05:12", ...}. Values may carry a
// trailing timezone suffix ("05:12 (EET)") which parsers must strip.
type PrayerTimings map[string]string

// UserLocation is set during onboarding and replaced on location change.
// Timezone drives every "now" computation in the scheduler.
type UserLocation struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// PrayerStateMode classifies the current instant relative to today's prayers.
type PrayerStateMode string

const (
	StateNormal       PrayerStateMode = "NORMAL"
	StateWaitingIqama PrayerStateMode = "WAITING_IQAMA"
	StateIqamaActive  PrayerStateMode = "IQAMA_ACTIVE"
)

// PrayerState is the classifier output. It is recomputed on every poll and
// never persisted.
type PrayerState struct {
	Mode      PrayerStateMode `json:"mode"`
	PrayerKey string          `json:"prayer_key,omitempty"`
	IqamaTime time.Time       `json:"iqama_time,omitempty"`
}

// NextPrayer is the resolver output: the next upcoming prayer, wrapping to
// tomorrow's Fajr once today's prayers are exhausted.
type NextPrayer struct {
	Key        string    `json:"key"`
	DisplayKey string    `json:"display_key"`
	Time       time.Time `json:"time"`
}
