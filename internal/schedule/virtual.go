package schedule

import (
	"slices"
	"sync"
	"time"
)

// Virtual is a manually advanced clock. Callbacks run synchronously inside
// Advance, in due order; ties run in scheduling order.
type Virtual struct {
	mu      sync.Mutex
	now     time.Time
	seq     uint64
	pending []*virtualTimer
}

type virtualTimer struct {
	v   *Virtual
	due time.Time
	seq uint64
	fn  func()
}

// NewVirtual returns a virtual clock starting at start
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

func (v *Virtual) AfterFunc(d time.Duration, f func()) Timer {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	t := &virtualTimer{v: v, due: v.now.Add(d), seq: v.seq, fn: f}
	v.pending = append(v.pending, t)
	return t
}

func (t *virtualTimer) Stop() bool {
	t.v.mu.Lock()
	defer t.v.mu.Unlock()
	i := slices.Index(t.v.pending, t)
	if i < 0 {
		return false
	}
	t.v.pending = slices.Delete(t.v.pending, i, i+1)
	return true
}

// Advance moves the clock forward by d, running every callback that falls
// due, including ones scheduled by callbacks during the advance.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now.Add(d)
	v.mu.Unlock()

	for {
		v.mu.Lock()
		next := v.popDue(target)
		if next == nil {
			v.now = target
			v.mu.Unlock()
			return
		}
		v.now = next.due
		v.mu.Unlock()

		next.fn()
	}
}

// popDue removes and returns the earliest timer due at or before target.
func (v *Virtual) popDue(target time.Time) *virtualTimer {
	if len(v.pending) == 0 {
		return nil
	}
	i := 0
	for j, t := range v.pending[1:] {
		best := v.pending[i]
		if t.due.Before(best.due) || (t.due.Equal(best.due) && t.seq < best.seq) {
			i = j + 1
		}
	}
	t := v.pending[i]
	if t.due.After(target) {
		return nil
	}
	v.pending = slices.Delete(v.pending, i, i+1)
	return t
}

// Pending reports how many callbacks are waiting
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.pending)
}
