// Package alert turns fired triggers into display payloads. The Dispatcher
// owns the single ActiveAlert slot: a new dispatch replaces it, an explicit
// dismissal or the per-kind auto-dismiss timeout clears it.
package alert

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/minaretlabs/minaret/internal/model"
)

// Pusher receives dispatched payloads: the MQTT publisher, the WebSocket
// hub and the redis mirror all implement it. Push is best-effort; display
// surfaces that miss a push pull the active alert instead.
type Pusher interface {
	PushAlert(payload model.AlertPayload, ttl time.Duration)
	AlertClosed()
}

// Audio is the fire-and-forget playback subsystem.
type Audio interface {
	Play(kind model.AlertKind)
	Stop()
}

// Request describes one alert to dispatch.
type Request struct {
	Kind       model.AlertKind
	PrayerKey  string // display key (Jumuah on Fridays)
	Sunrise    bool
	Language   string
	Fullscreen bool
	Timer      *model.TimerSpec
	Quote      *model.Quote // picked automatically for IQAMA/NORMAL when nil
	Persist    time.Duration
	PlayAudio  bool
}

type Dispatcher struct {
	Now func() time.Time

	// Auto-dismiss durations per alert kind.
	PreDismiss        time.Duration
	AdhanDismiss      time.Duration
	IqamaDismiss      time.Duration
	FullscreenDismiss time.Duration

	audio   Audio
	pushers []Pusher

	mu       sync.Mutex
	active   *model.AlertPayload
	clear    *time.Timer
	clearGen uint64
}

func NewDispatcher(audio Audio, pushers ...Pusher) *Dispatcher {
	return &Dispatcher{
		Now:               time.Now,
		PreDismiss:        25 * time.Second,
		AdhanDismiss:      90 * time.Second,
		IqamaDismiss:      4 * time.Minute,
		FullscreenDismiss: 5 * time.Minute,
		audio:             audio,
		pushers:           pushers,
	}
}

// Dispatch builds the payload, records it as the active alert and fans it
// out. The previous alert, if any, is replaced.
func (d *Dispatcher) Dispatch(req Request) model.AlertPayload {
	payload := d.buildPayload(req)
	ttl := d.dismissAfter(req)

	d.mu.Lock()
	d.active = &payload
	if d.clear != nil {
		d.clear.Stop()
	}
	// Stop can miss a timer that already expired with its callback queued;
	// the generation check in timeout keeps that stale callback from wiping
	// the alert installed here.
	d.clearGen++
	gen := d.clearGen
	d.clear = time.AfterFunc(ttl, func() { d.timeout(gen) })
	d.mu.Unlock()

	log.Info().
		Str("kind", string(req.Kind)).
		Str("prayer", req.PrayerKey).
		Dur("dismiss_after", ttl).
		Msg("alert dispatched")

	for _, p := range d.pushers {
		p.PushAlert(payload, ttl)
	}
	if req.PlayAudio && d.audio != nil {
		d.audio.Play(req.Kind)
	}
	return payload
}

// Active returns the currently displayed alert, if any. Freshly focused
// display surfaces query this instead of relying on push delivery.
func (d *Dispatcher) Active() (model.AlertPayload, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active == nil {
		return model.AlertPayload{}, false
	}
	return *d.active, true
}

// Dismiss clears the active alert and stops pending audio. Invoked by the
// user closing the alert on any surface.
func (d *Dispatcher) Dismiss() {
	d.mu.Lock()
	d.active = nil
	if d.clear != nil {
		d.clear.Stop()
		d.clear = nil
	}
	d.clearGen++
	d.mu.Unlock()

	if d.audio != nil {
		d.audio.Stop()
	}
	for _, p := range d.pushers {
		p.AlertClosed()
	}
}

// timeout clears the slot when the auto-dismiss timer runs out. Unlike
// Dismiss it does not touch audio: the adhan keeps playing even after the
// banner hides itself. A gen older than the current one belongs to an alert
// that was already replaced or dismissed, so the slot stays untouched.
func (d *Dispatcher) timeout(gen uint64) {
	d.mu.Lock()
	if gen == d.clearGen {
		d.active = nil
		d.clear = nil
	}
	d.mu.Unlock()
}

func (d *Dispatcher) dismissAfter(req Request) time.Duration {
	if req.Persist > 0 {
		return req.Persist
	}
	switch req.Kind {
	case model.AlertPre:
		return d.PreDismiss
	case model.AlertAdhan:
		return d.AdhanDismiss
	case model.AlertIqama:
		if req.Fullscreen {
			return d.FullscreenDismiss
		}
		return d.IqamaDismiss
	default:
		return d.PreDismiss
	}
}

func (d *Dispatcher) buildPayload(req Request) model.AlertPayload {
	lang := req.Language
	if lang == "" {
		lang = "ar"
	}

	var titleKey, msgKey string
	switch req.Kind {
	case model.AlertPre:
		titleKey, msgKey = "alertPreTitle", "alertPreMsg"
	case model.AlertAdhan:
		if req.Sunrise {
			titleKey, msgKey = "alertSunriseTitle", "alertSunriseMsg"
		} else {
			titleKey, msgKey = "alertAdhanTitle", "alertAdhanMsg"
		}
	case model.AlertIqama:
		titleKey = "alertIqamaTitle"
	default:
		titleKey = "alertAdhkarTitle"
	}

	quote := req.Quote
	if quote == nil {
		switch req.Kind {
		case model.AlertIqama:
			q := RandomQuote(lang)
			quote = &q
		case model.AlertNormal:
			q := RandomDhikr(lang)
			quote = &q
		}
	}

	title := tr(lang, titleKey)
	var message string
	if msgKey != "" {
		message = tr(lang, msgKey)
		if req.PrayerKey != "" && strings.Contains(message, "{prayer}") {
			name := tr(lang, "prayer"+req.PrayerKey)
			message = strings.ReplaceAll(message, "{prayer}", name)
		}
	} else if quote != nil {
		message = quote.Text
	}

	return model.AlertPayload{
		Action:       model.ShowPrayerAlert,
		Kind:         req.Kind,
		Title:        title,
		Message:      message,
		PrayerKey:    req.PrayerKey,
		Timer:        req.Timer,
		Quote:        quote,
		Fullscreen:   req.Fullscreen,
		ButtonLabels: buttonLabels(lang),
		IssuedAt:     d.Now(),
	}
}
