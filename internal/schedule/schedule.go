// Package schedule runs deferred callbacks. The game engine and the notice
// banner take a Scheduler so tests can drive time with a Virtual clock.
package schedule

import (
	"sync"
	"time"
)

// Timer is a pending callback
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer, false if it already fired or was stopped.
	Stop() bool
}

// Scheduler defers callbacks
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Real schedules on the wall clock. Callbacks run on their own goroutine.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Ticker calls a function every period until stopped
type Ticker struct {
	s      Scheduler
	period time.Duration
	fn     func()

	mu      sync.Mutex
	timer   Timer
	stopped bool
}

// Every starts a Ticker. The first call happens one period from now.
func Every(s Scheduler, period time.Duration, fn func()) *Ticker {
	t := &Ticker{s: s, period: period, fn: fn}
	t.mu.Lock()
	t.timer = s.AfterFunc(period, t.fire)
	t.mu.Unlock()
	return t
}

func (t *Ticker) fire() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	// Re-arm before the callback so a Stop inside fn cancels the next tick
	t.timer = t.s.AfterFunc(t.period, t.fire)
	t.mu.Unlock()

	t.fn()
}

// Stop halts the ticker. No call to fn starts after Stop returns, though a
// call already in progress on another goroutine may still be running.
func (t *Ticker) Stop() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
	}
}
