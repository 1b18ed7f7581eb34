// Package notice shows short-lived confirmation messages.
package notice

import (
	"sync"
	"time"

	"github.com/futurework-1/NestEgg-Journal/internal/events"
	"github.com/futurework-1/NestEgg-Journal/internal/schedule"
)

// Messages shown after the settings clear actions
const (
	HistoryCleared = "Observation history has been successfully cleared"
	ProgressReset  = "All favorites and studied data has been successfully deleted"
)

// DefaultDuration is how long a message stays visible
const DefaultDuration = 2 * time.Second

// Event actions published on events.TopicNotice with the message as payload
const (
	ActionShown     = "shown"
	ActionDismissed = "dismissed"
)

// Banner holds at most one visible message. Show replaces the current
// message and restarts its dismissal timer.
type Banner struct {
	sched    schedule.Scheduler
	duration time.Duration
	bus      *events.EventBus

	mu      sync.Mutex
	text    string
	visible bool
	timer   schedule.Timer
	gen     uint64
}

// NewBanner returns a hidden banner. A zero duration uses DefaultDuration.
func NewBanner(sched schedule.Scheduler, duration time.Duration, bus *events.EventBus) *Banner {
	if sched == nil {
		sched = schedule.Real{}
	}
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Banner{sched: sched, duration: duration, bus: bus}
}

// Show makes text visible until the duration elapses or another Show
func (b *Banner) Show(text string) {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.gen++
	gen := b.gen
	b.text = text
	b.visible = true
	b.timer = b.sched.AfterFunc(b.duration, func() { b.dismiss(gen) })
	b.mu.Unlock()

	b.bus.Publish(events.TopicNotice, ActionShown, "", text)
}

func (b *Banner) dismiss(gen uint64) {
	b.mu.Lock()
	if gen != b.gen || !b.visible {
		b.mu.Unlock()
		return
	}
	text := b.text
	b.visible = false
	b.timer = nil
	b.mu.Unlock()

	b.bus.Publish(events.TopicNotice, ActionDismissed, "", text)
}

// Current returns the visible message, if any
func (b *Banner) Current() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.visible {
		return "", false
	}
	return b.text, true
}

// Close hides the message and cancels its timer
func (b *Banner) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.gen++
	b.visible = false
}
