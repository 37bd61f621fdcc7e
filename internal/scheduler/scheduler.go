// Package scheduler owns the named trigger set and decides which future
// instants merit a wake-up. A full scheduling pass is idempotent: re-running
// it with unchanged storage produces the same trigger set, so the periodic
// heartbeat doubles as the retry and self-healing mechanism.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/minaretlabs/minaret/internal/alarm"
	"github.com/minaretlabs/minaret/internal/alert"
	"github.com/minaretlabs/minaret/internal/model"
	"github.com/minaretlabs/minaret/internal/prayer"
	"github.com/minaretlabs/minaret/internal/timeutil"
)

// Trigger names. At most one pending fire exists per name; the alarm
// platform's create-replaces semantics enforce that.
const (
	TriggerNextPrayer = "alarm_next_prayer"
	TriggerPrePrayer  = "alarm_pre_prayer"
	TriggerIqama      = "alarm_iqama"
	TriggerAdhkar     = "alarm_adhkar"
	TriggerScheduler  = "alarm_scheduler"
)

// Storage is what the scheduler reads on every pass. Settings and timings
// are re-read on each invocation rather than cached, so a settings change
// takes effect on the next fired trigger.
type Storage interface {
	Settings() (model.Settings, error)
	Timings() (model.PrayerTimings, bool, error)
	Location() (model.UserLocation, bool, error)
}

// Triggers is the alarm-platform surface the scheduler drives.
type Triggers interface {
	Create(name string, opt alarm.Options)
	Get(name string) (alarm.Trigger, bool)
	Clear(name string)
}

// Alerts receives dispatch decisions.
type Alerts interface {
	Dispatch(req alert.Request) model.AlertPayload
}

type Scheduler struct {
	Store    Storage
	Triggers Triggers
	Alerts   Alerts
	Now      func() time.Time

	// Tunables. The historical values varied between revisions, so all of
	// them are fields rather than constants.
	HeartbeatPeriod     time.Duration // full-pass resync cadence
	IqamaDisplay        time.Duration // iqama screen window length
	CatchupGrace        time.Duration // startup: how late an adhan still fires
	StaleAdhan          time.Duration // misfire tolerance for NEXT_PRAYER
	StaleIqama          time.Duration // misfire tolerance for IQAMA
	PrePersistThreshold time.Duration // below this gap the pre-alert persists to adhan
	SharpWarning        time.Duration // second pre-alert lead time

	mu sync.Mutex
}

func New(store Storage, triggers Triggers, alerts Alerts) *Scheduler {
	return &Scheduler{
		Store:               store,
		Triggers:            triggers,
		Alerts:              alerts,
		Now:                 time.Now,
		HeartbeatPeriod:     60 * time.Minute,
		IqamaDisplay:        prayer.DefaultIqamaDisplay,
		CatchupGrace:        5 * time.Minute,
		StaleAdhan:          5 * time.Minute,
		StaleIqama:          10 * time.Minute,
		PrePersistThreshold: 3 * time.Minute,
		SharpWarning:        2 * time.Minute,
	}
}

// Start arms the periodic heartbeat and runs the startup pass, which
// reconciles events missed while the process was down.
func (s *Scheduler) Start() {
	s.Triggers.Create(TriggerScheduler, alarm.Options{Every: s.HeartbeatPeriod})
	if err := s.Startup(); err != nil {
		log.Error().Err(err).Msg("startup scheduling pass failed")
	}
}

// Reschedule runs the full scheduling pass. Any failure leaves previously
// scheduled triggers intact; the heartbeat retries later.
func (s *Scheduler) Reschedule() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reschedule()
}

// Startup runs the full pass plus missed-event reconciliation: an adhan
// that fired less than CatchupGrace ago is dispatched immediately, and a
// pre-adhan window already in progress produces its alert right away since
// the trigger that would have fired it did not survive the restart.
func (s *Scheduler) Startup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, ok, err := s.load()
	if err != nil {
		return err
	}
	if ok {
		s.catchUp(in)
	}
	return s.reschedule()
}

// HandleTrigger is the alarm-platform callback. Each fire is handled as an
// independent, complete pass; the mutex keeps passes from interleaving.
func (s *Scheduler) HandleTrigger(t alarm.Trigger) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch t.Name {
	case TriggerScheduler:
		err = s.reschedule()
	case TriggerNextPrayer:
		err = s.handleAdhan(t)
	case TriggerPrePrayer:
		err = s.handlePre(t)
	case TriggerIqama:
		err = s.handleIqama(t)
	case TriggerAdhkar:
		err = s.handleAdhkar(t)
	default:
		log.Warn().Str("trigger", t.Name).Msg("unknown trigger fired")
	}
	if err != nil {
		log.Error().Err(err).Str("trigger", t.Name).Msg("trigger handling failed")
	}
}

// inputs is one consistent read of storage for a single pass.
type inputs struct {
	settings model.Settings
	timings  model.PrayerTimings
	location model.UserLocation
}

func (in inputs) iqamaWait() time.Duration {
	return time.Duration(in.settings.IqamaMinutes) * time.Minute
}

func (in inputs) preLead() time.Duration {
	return time.Duration(in.settings.PreAdhanMinutes) * time.Minute
}

// load reads the pass inputs. ok is false when onboarding has not produced
// timings and a location yet, which is not an error: there is simply
// nothing to schedule.
func (s *Scheduler) load() (inputs, bool, error) {
	settings, err := s.Store.Settings()
	if err != nil {
		return inputs{}, false, fmt.Errorf("loading settings: %w", err)
	}
	timings, haveTimes, err := s.Store.Timings()
	if err != nil {
		return inputs{}, false, fmt.Errorf("loading prayer times: %w", err)
	}
	location, haveLoc, err := s.Store.Location()
	if err != nil {
		return inputs{}, false, fmt.Errorf("loading location: %w", err)
	}
	if !haveTimes || !haveLoc {
		log.Debug().Msg("no timings or location yet, nothing to schedule")
		return inputs{}, false, nil
	}
	return inputs{settings: settings, timings: timings, location: location}, true, nil
}

func (s *Scheduler) reschedule() error {
	in, ok, err := s.load()
	if err != nil || !ok {
		return err
	}
	now := s.Now()

	// Recover an iqama window that is open right now. This covers the case
	// where the process was suspended mid-window: the IQAMA trigger is
	// recreated at the window's end.
	st := prayer.Classify(in.timings, in.location.Timezone, in.iqamaWait(), s.IqamaDisplay, now)
	if st.Mode == model.StateWaitingIqama {
		s.Triggers.Create(TriggerIqama, alarm.Options{When: st.IqamaTime})
	}

	next, ok := prayer.ResolveNext(in.timings, in.location.Timezone, in.settings.EnableSunrise, now)
	if ok && next.Time.After(now) {
		s.Triggers.Create(TriggerNextPrayer, alarm.Options{When: next.Time})
		log.Info().
			Str("prayer", next.Key).
			Time("at", next.Time).
			Msg("next prayer scheduled")

		pre := next.Time.Add(-in.preLead())
		if pre.After(now) {
			s.Triggers.Create(TriggerPrePrayer, alarm.Options{When: pre})
		}
	}

	// Match the adhkar trigger to current settings, touching it only when
	// the period actually changed so the periodic phase does not drift.
	if in.settings.AdhkarEnabled {
		period := time.Duration(in.settings.AdhkarInterval) * time.Minute
		if cur, exists := s.Triggers.Get(TriggerAdhkar); !exists || cur.Period != period {
			s.Triggers.Create(TriggerAdhkar, alarm.Options{Every: period})
		}
	} else {
		s.Triggers.Clear(TriggerAdhkar)
	}

	return nil
}

// catchUp reconciles events the process slept through.
func (s *Scheduler) catchUp(in inputs) {
	now := s.Now()
	zoned := timeutil.NowInZone(now, in.location.Timezone)

	// Most recent adhan of today, if any.
	var lastKey string
	var lastAt time.Time
	keys := model.CongregationalKeys
	if in.settings.EnableSunrise {
		keys = model.AllKeys
	}
	for _, key := range keys {
		at, ok := timeutil.ParsePrayerTime(in.timings[key], zoned)
		if !ok || at.After(zoned) {
			continue
		}
		if lastAt.IsZero() || at.After(lastAt) {
			lastKey, lastAt = key, at
		}
	}

	if !lastAt.IsZero() && zoned.Sub(lastAt) < s.CatchupGrace {
		log.Info().
			Str("prayer", lastKey).
			Dur("late_by", zoned.Sub(lastAt)).
			Msg("dispatching adhan missed during downtime")
		s.dispatchAdhan(in, lastKey, lastAt)
		return
	}

	// Inside the pre-adhan window of the upcoming prayer: the PRE_PRAYER
	// trigger for it is gone, so show the pre-alert now.
	next, ok := prayer.ResolveNext(in.timings, in.location.Timezone, in.settings.EnableSunrise, now)
	if ok && next.Time.Sub(now) <= in.preLead() {
		s.dispatchPre(in, next)
	}
}

// dispatchAdhan emits the adhan (or sunrise) alert and arms the iqama
// follow-up. adhanAt is the prayer's actual instant, which on a catch-up
// differs from "now".
func (s *Scheduler) dispatchAdhan(in inputs, key string, adhanAt time.Time) {
	sunrise := key == model.Sunrise
	s.Alerts.Dispatch(alert.Request{
		Kind:      model.AlertAdhan,
		PrayerKey: prayer.DisplayKey(key, adhanAt),
		Sunrise:   sunrise,
		Language:  in.settings.Language,
		Timer:     &model.TimerSpec{Mode: model.TimerCountup, Start: adhanAt},
		PlayAudio: in.settings.AdhanSound && !sunrise,
	})
	if !sunrise {
		s.Triggers.Create(TriggerIqama, alarm.Options{When: adhanAt.Add(in.iqamaWait())})
	}
}

// dispatchPre emits the pre-adhan alert. When the remaining gap is already
// short the alert persists through to the adhan instead of disappearing and
// reappearing.
func (s *Scheduler) dispatchPre(in inputs, next model.NextPrayer) {
	remaining := next.Time.Sub(s.Now())
	var persist time.Duration
	if remaining > 0 && remaining <= s.PrePersistThreshold {
		persist = remaining
	}
	s.Alerts.Dispatch(alert.Request{
		Kind:      model.AlertPre,
		PrayerKey: next.DisplayKey,
		Language:  in.settings.Language,
		Timer:     &model.TimerSpec{Mode: model.TimerCountdown, Target: next.Time},
		Persist:   persist,
	})
}

// firedPrayer identifies which prayer a NEXT_PRAYER fire belongs to: the
// timing closest to the trigger's scheduled instant, within a small
// tolerance.
func (s *Scheduler) firedPrayer(in inputs, fireAt time.Time) (string, bool) {
	const tolerance = 2 * time.Minute
	zonedFire := timeutil.NowInZone(fireAt, in.location.Timezone)

	keys := model.CongregationalKeys
	if in.settings.EnableSunrise {
		keys = model.AllKeys
	}

	var bestKey string
	var bestDiff time.Duration
	for _, key := range keys {
		at, ok := timeutil.ParsePrayerTime(in.timings[key], zonedFire)
		if !ok {
			continue
		}
		diff := at.Sub(zonedFire)
		if diff < 0 {
			diff = -diff
		}
		if bestKey == "" || diff < bestDiff {
			bestKey, bestDiff = key, diff
		}
	}
	if bestKey == "" || bestDiff > tolerance {
		return "", false
	}
	return bestKey, true
}

func (s *Scheduler) handleAdhan(t alarm.Trigger) error {
	now := s.Now()
	if now.Sub(t.FireAt) > s.StaleAdhan {
		log.Warn().
			Time("scheduled", t.FireAt).
			Dur("late_by", now.Sub(t.FireAt)).
			Msg("stale adhan fire discarded, rescheduling")
		return s.reschedule()
	}

	in, ok, err := s.load()
	if err != nil || !ok {
		return err
	}

	key, ok := s.firedPrayer(in, t.FireAt)
	if !ok {
		// Timings changed underneath the trigger (new day, new location).
		return s.reschedule()
	}

	adhanAt := t.FireAt
	s.dispatchAdhan(in, key, adhanAt)
	return s.reschedule()
}

func (s *Scheduler) handlePre(t alarm.Trigger) error {
	in, ok, err := s.load()
	if err != nil || !ok {
		return err
	}

	next, ok := prayer.ResolveNext(in.timings, in.location.Timezone, in.settings.EnableSunrise, s.Now())
	if !ok {
		return nil
	}
	s.dispatchPre(in, next)

	// Coarse early warning now, sharper one near the adhan.
	remaining := next.Time.Sub(s.Now())
	if remaining > s.PrePersistThreshold && s.SharpWarning > 0 {
		s.Triggers.Create(TriggerPrePrayer, alarm.Options{When: next.Time.Add(-s.SharpWarning)})
	}
	return nil
}

func (s *Scheduler) handleIqama(t alarm.Trigger) error {
	now := s.Now()
	if now.Sub(t.FireAt) > s.StaleIqama {
		log.Warn().
			Time("scheduled", t.FireAt).
			Dur("late_by", now.Sub(t.FireAt)).
			Msg("stale iqama fire discarded, rescheduling")
		return s.reschedule()
	}

	in, ok, err := s.load()
	if err != nil || !ok {
		return err
	}

	st := prayer.Classify(in.timings, in.location.Timezone, in.iqamaWait(), s.IqamaDisplay, now)
	display := ""
	if st.PrayerKey != "" {
		display = prayer.DisplayKey(st.PrayerKey, now)
	}

	s.Alerts.Dispatch(alert.Request{
		Kind:       model.AlertIqama,
		PrayerKey:  display,
		Language:   in.settings.Language,
		Fullscreen: in.settings.FullscreenIqama,
		PlayAudio:  in.settings.AdhanSound,
	})
	return s.reschedule()
}

func (s *Scheduler) handleAdhkar(t alarm.Trigger) error {
	in, ok, err := s.load()
	if err != nil || !ok {
		return err
	}
	now := s.Now()

	// Never interrupt the prayer sequence: stay silent from the pre-adhan
	// lead time through the end of the iqama wait.
	st := prayer.Classify(in.timings, in.location.Timezone, in.iqamaWait(), s.IqamaDisplay, now)
	if st.Mode != model.StateNormal {
		log.Debug().Str("state", string(st.Mode)).Msg("adhkar suppressed inside prayer window")
		return nil
	}
	next, ok := prayer.ResolveNext(in.timings, in.location.Timezone, in.settings.EnableSunrise, now)
	if ok && next.Time.Sub(now) <= in.preLead() {
		log.Debug().Str("prayer", next.Key).Msg("adhkar suppressed, prayer imminent")
		return nil
	}

	s.Alerts.Dispatch(alert.Request{
		Kind:     model.AlertNormal,
		Language: in.settings.Language,
	})
	return nil
}
