package alarm

import (
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	fired []string
	ch    chan Trigger
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan Trigger, 16)}
}

func (r *recorder) handle(t Trigger) {
	r.mu.Lock()
	r.fired = append(r.fired, t.Name)
	r.mu.Unlock()
	r.ch <- t
}

func (r *recorder) wait(t *testing.T, timeout time.Duration) Trigger {
	t.Helper()
	select {
	case tr := <-r.ch:
		return tr
	case <-time.After(timeout):
		t.Fatal("trigger did not fire in time")
		return Trigger{}
	}
}

func TestOneShotFires(t *testing.T) {
	rec := newRecorder()
	p := NewPlatform(rec.handle)

	p.Create("wake", Options{When: time.Now().Add(30 * time.Millisecond)})
	tr := rec.wait(t, 2*time.Second)
	if tr.Name != "wake" {
		t.Errorf("fired %q, want wake", tr.Name)
	}
	if _, ok := p.Get("wake"); ok {
		t.Error("one-shot trigger still pending after firing")
	}
}

func TestCreateReplacesByName(t *testing.T) {
	rec := newRecorder()
	p := NewPlatform(rec.handle)

	far := time.Now().Add(time.Hour)
	near := time.Now().Add(25 * time.Millisecond)
	p.Create("wake", Options{When: far})
	p.Create("wake", Options{When: near})

	got, ok := p.Get("wake")
	if !ok {
		t.Fatal("expected pending trigger")
	}
	if !got.FireAt.Equal(near) {
		t.Errorf("pending fire time = %v, want replacement %v", got.FireAt, near)
	}

	rec.wait(t, 2*time.Second)
	rec.mu.Lock()
	n := len(rec.fired)
	rec.mu.Unlock()
	if n != 1 {
		t.Errorf("fired %d times, want exactly once", n)
	}
}

func TestClearCancels(t *testing.T) {
	rec := newRecorder()
	p := NewPlatform(rec.handle)

	p.Create("wake", Options{When: time.Now().Add(30 * time.Millisecond)})
	p.Clear("wake")

	select {
	case <-rec.ch:
		t.Fatal("cleared trigger fired anyway")
	case <-time.After(100 * time.Millisecond):
	}
	if _, ok := p.Get("wake"); ok {
		t.Error("cleared trigger still reported pending")
	}
}

func TestPeriodicFiresRepeatedly(t *testing.T) {
	rec := newRecorder()
	p := NewPlatform(rec.handle)
	defer p.ClearAll()

	p.Create("beat", Options{Every: 20 * time.Millisecond})
	rec.wait(t, 2*time.Second)
	rec.wait(t, 2*time.Second)

	if _, ok := p.Get("beat"); !ok {
		t.Error("periodic trigger should stay pending after firing")
	}
}

func TestReplaceDuringExpiryKeepsReplacement(t *testing.T) {
	// A trigger whose timer has already expired races its queued callback
	// against the Create that replaces it. The replacement must neither
	// fire early nor vanish from the pending set.
	for i := 0; i < 20; i++ {
		rec := newRecorder()
		p := NewPlatform(rec.handle)

		far := time.Now().Add(time.Hour)
		p.Create("wake", Options{When: time.Now().Add(-time.Second)})
		p.Create("wake", Options{When: far})

		time.Sleep(20 * time.Millisecond)

		got, ok := p.Get("wake")
		if !ok {
			t.Fatalf("iteration %d: replacement dropped from pending set", i)
		}
		if !got.FireAt.Equal(far) {
			t.Fatalf("iteration %d: pending fire time = %v, want %v", i, got.FireAt, far)
		}
		for {
			select {
			case tr := <-rec.ch:
				if tr.FireAt.Equal(far) {
					t.Fatalf("iteration %d: replacement fired an hour early", i)
				}
				continue
			default:
			}
			break
		}
	}
}

func TestPastFireTimeFiresImmediately(t *testing.T) {
	rec := newRecorder()
	p := NewPlatform(rec.handle)

	p.Create("late", Options{When: time.Now().Add(-time.Minute)})
	rec.wait(t, 2*time.Second)
}
