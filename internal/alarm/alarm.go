// Package alarm is the trigger platform: named one-shot or periodic timed
// callbacks. Creating a trigger under an existing name replaces it, which is
// what keeps the "at most one pending fire per name" invariant without any
// application-level locking above this package.
package alarm

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Trigger is a named timed event. FireAt is set for one-shot triggers,
// Period for periodic ones.
type Trigger struct {
	Name   string
	FireAt time.Time
	Period time.Duration
}

// Handler receives fired triggers. It runs on its own goroutine so a slow
// handler never delays other triggers.
type Handler func(t Trigger)

// Options selects the firing mode: exactly one of When or Every must be set.
type Options struct {
	When  time.Time
	Every time.Duration
}

type entry struct {
	trigger Trigger
	timer   *time.Timer
	stop    chan struct{}
}

// Platform owns the pending trigger set.
type Platform struct {
	Now func() time.Time

	mu      sync.Mutex
	handler Handler
	pending map[string]*entry
}

func NewPlatform(h Handler) *Platform {
	return &Platform{
		Now:     time.Now,
		handler: h,
		pending: make(map[string]*entry),
	}
}

// Create schedules a trigger, replacing any pending trigger with the same name.
func (p *Platform) Create(name string, opt Options) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clearLocked(name)

	e := &entry{stop: make(chan struct{})}
	if opt.Every > 0 {
		e.trigger = Trigger{Name: name, FireAt: p.Now().Add(opt.Every), Period: opt.Every}
		go p.runPeriodic(e, opt.Every)
		log.Debug().Str("trigger", name).Dur("every", opt.Every).Msg("periodic trigger created")
	} else {
		e.trigger = Trigger{Name: name, FireAt: opt.When}
		delay := opt.When.Sub(p.Now())
		if delay < 0 {
			delay = 0
		}
		e.timer = time.AfterFunc(delay, func() { p.fireOneShot(name, e) })
		log.Debug().Str("trigger", name).Time("at", opt.When).Msg("trigger created")
	}
	p.pending[name] = e
}

// Get reports the pending trigger with the given name, if any.
func (p *Platform) Get(name string) (Trigger, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.pending[name]
	if !ok {
		return Trigger{}, false
	}
	return e.trigger, true
}

// Clear cancels the named trigger. Clearing an unknown name is a no-op.
func (p *Platform) Clear(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearLocked(name)
}

// ClearAll cancels every pending trigger.
func (p *Platform) ClearAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for name := range p.pending {
		p.clearLocked(name)
	}
}

func (p *Platform) clearLocked(name string) {
	e, ok := p.pending[name]
	if !ok {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	close(e.stop)
	delete(p.pending, name)
}

// fireOneShot delivers an expired one-shot. The timer may have expired
// concurrently with a Create or Clear for the same name: timer.Stop then
// returns false and this callback still runs, so the fire only counts when
// the pending entry is still the one the timer was armed for.
func (p *Platform) fireOneShot(name string, e *entry) {
	p.mu.Lock()
	if p.pending[name] != e {
		p.mu.Unlock()
		return
	}
	delete(p.pending, name)
	h := p.handler
	p.mu.Unlock()

	if h != nil {
		h(e.trigger)
	}
}

func (p *Platform) runPeriodic(e *entry, every time.Duration) {
	tick := time.NewTicker(every)
	defer tick.Stop()

	for {
		select {
		case <-e.stop:
			return
		case <-tick.C:
			p.mu.Lock()
			e.trigger.FireAt = p.Now().Add(every)
			h := p.handler
			t := e.trigger
			p.mu.Unlock()
			if h != nil {
				h(t)
			}
		}
	}
}
