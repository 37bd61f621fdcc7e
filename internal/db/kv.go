package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/minaretlabs/minaret/internal/model"
)

// Storage keys. Kept as constants so a typo can't silently split state
// across two keys.
const (
	KeySettings     = "app_settings"
	KeyPrayerTimes  = "prayer_times"
	KeyUserLocation = "user_location"
	KeyCustomAdhan  = "custom_adhan_sound"
	KeyCustomIqama  = "custom_iqama_sound"
)

// Set stores value under key, replacing any previous value.
func Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	const q = `
	INSERT INTO kv (key, value, bytes, updated_at)
	VALUES ($1, $2, $3, now())
	ON CONFLICT (key) DO UPDATE
	   SET value = EXCLUDED.value, bytes = EXCLUDED.bytes, updated_at = now();`
	if _, err := DB.Exec(q, key, raw, len(raw)); err != nil {
		log.Error().Err(err).Str("key", key).Msg("kv set failed")
		return err
	}
	return nil
}

// Get loads the value stored under key into out. It reports false without
// an error when the key is absent.
func Get(key string, out any) (bool, error) {
	var raw []byte
	err := DB.Get(&raw, `SELECT value FROM kv WHERE key = $1;`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("kv get failed")
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("unmarshal %q: %w", key, err)
	}
	return true, nil
}

// Remove deletes the given keys. Unknown keys are ignored.
func Remove(keys ...string) error {
	const q = `DELETE FROM kv WHERE key = ANY($1);`
	if _, err := DB.Exec(q, pq.Array(keys)); err != nil {
		log.Error().Err(err).Strs("keys", keys).Msg("kv remove failed")
		return err
	}
	return nil
}

// SizeOf reports the stored size of key in bytes, 0 when absent. Used to
// check whether a custom audio blob exists without loading it.
func SizeOf(key string) (int, error) {
	var n int
	err := DB.Get(&n, `SELECT bytes FROM kv WHERE key = $1;`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("kv size failed")
		return 0, err
	}
	return n, nil
}

// GetSettings loads user settings, falling back to defaults when nothing is
// stored yet. Partial records are normalized.
func GetSettings() (model.Settings, error) {
	s := model.DefaultSettings()
	ok, err := Get(KeySettings, &s)
	if err != nil {
		return model.DefaultSettings(), err
	}
	if !ok {
		return model.DefaultSettings(), nil
	}
	s.Normalize()
	return s, nil
}

func SetSettings(s model.Settings) error {
	s.Normalize()
	return Set(KeySettings, s)
}

// GetPrayerTimes loads today's cached timings. ok is false when no fetch
// has happened yet.
func GetPrayerTimes() (model.PrayerTimings, bool, error) {
	var t model.PrayerTimings
	ok, err := Get(KeyPrayerTimes, &t)
	if err != nil || !ok {
		return nil, false, err
	}
	return t, true, nil
}

func SetPrayerTimes(t model.PrayerTimings) error {
	return Set(KeyPrayerTimes, t)
}

// GetLocation loads the configured location. ok is false before onboarding.
func GetLocation() (model.UserLocation, bool, error) {
	var loc model.UserLocation
	ok, err := Get(KeyUserLocation, &loc)
	if err != nil || !ok {
		return model.UserLocation{}, false, err
	}
	return loc, true, nil
}

func SetLocation(loc model.UserLocation) error {
	return Set(KeyUserLocation, loc)
}

// StoreAdapter satisfies the scheduler's storage interface with the
// package-level kv helpers.
type StoreAdapter struct{}

func (StoreAdapter) Settings() (model.Settings, error)           { return GetSettings() }
func (StoreAdapter) Timings() (model.PrayerTimings, bool, error) { return GetPrayerTimes() }
func (StoreAdapter) Location() (model.UserLocation, bool, error) { return GetLocation() }
