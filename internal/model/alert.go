package model

import "time"

// AlertKind selects the text template, the audio behaviour and the
// auto-dismiss duration of a dispatched alert.
type AlertKind string

const (
	AlertPre    AlertKind = "PRE"
	AlertAdhan  AlertKind = "ADHAN"
	AlertIqama  AlertKind = "IQAMA"
	AlertNormal AlertKind = "NORMAL"
)

// TimerMode says which way the on-screen timer runs.
type TimerMode string

const (
	TimerCountdown TimerMode = "COUNTDOWN"
	TimerCountup   TimerMode = "COUNTUP"
)

// TimerSpec describes the timer shown alongside an alert: either counting
// down to Target or counting up from Start.
type TimerSpec struct {
	Mode   TimerMode `json:"mode"`
	Target time.Time `json:"target,omitempty"`
	Start  time.Time `json:"start,omitempty"`
}

// Quote is a localized devotional quote attached to iqama and adhkar alerts.
type Quote struct {
	Type   string `json:"type"` // QURAN or HADITH
	Text   string `json:"text"`
	Source string `json:"source"`
}

// AlertPayload is what gets pushed to display surfaces and held as the
// single ActiveAlert. At most one exists at a time.
type AlertPayload struct {
	Action       string            `json:"action"`
	Kind         AlertKind         `json:"kind"`
	Title        string            `json:"title"`
	Message      string            `json:"message"`
	PrayerKey    string            `json:"prayer_key,omitempty"`
	Timer        *TimerSpec        `json:"timer,omitempty"`
	Quote        *Quote            `json:"quote,omitempty"`
	Fullscreen   bool              `json:"fullscreen"`
	ButtonLabels map[string]string `json:"button_labels,omitempty"`
	IssuedAt     time.Time         `json:"issued_at"`
}

// ShowPrayerAlert is the Action value display surfaces switch on.
const ShowPrayerAlert = "SHOW_PRAYER_ALERT"
