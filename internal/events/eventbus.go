package events

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/futurework-1/NestEgg-Journal/internal/logger"
)

// EventBus delivers events to subscribed consumers on the publisher's
// goroutine, in subscription order. A nil *EventBus is valid and drops
// everything, so stores can run without one.
type EventBus struct {
	mu            sync.RWMutex
	subscriptions []subscription

	stats struct {
		published atomic.Uint64
		processed atomic.Uint64
		unrouted  atomic.Uint64
		errors    atomic.Uint64
	}

	now    func() time.Time
	logger logger.Logger
}

type subscription struct {
	consumer EventConsumer
	topics   []Topic // empty means all topics
}

// NewEventBus creates an event bus. A nil logger discards bus diagnostics.
func NewEventBus(log logger.Logger) *EventBus {
	if log == nil {
		log = logger.Discard()
	}
	return &EventBus{
		now:    time.Now,
		logger: log.Module("events"),
	}
}

// Subscribe registers consumer for the given topics, or for every topic when
// none are given. Consumer names must be unique.
func (eb *EventBus) Subscribe(consumer EventConsumer, topics ...Topic) error {
	if eb == nil {
		return fmt.Errorf("event bus not initialized")
	}
	if consumer == nil {
		return fmt.Errorf("consumer cannot be nil")
	}

	eb.mu.Lock()
	defer eb.mu.Unlock()

	for _, existing := range eb.subscriptions {
		if existing.consumer.Name() == consumer.Name() {
			return fmt.Errorf("consumer %s already registered", consumer.Name())
		}
	}

	eb.subscriptions = append(eb.subscriptions, subscription{
		consumer: consumer,
		topics:   slices.Clone(topics),
	})

	eb.logger.Debug("registered event consumer",
		logger.String("consumer", consumer.Name()),
		logger.Int("topics", len(topics)))
	return nil
}

// Unsubscribe removes the named consumer. It reports whether one was removed.
func (eb *EventBus) Unsubscribe(name string) bool {
	if eb == nil {
		return false
	}

	eb.mu.Lock()
	defer eb.mu.Unlock()

	before := len(eb.subscriptions)
	eb.subscriptions = slices.DeleteFunc(eb.subscriptions, func(s subscription) bool {
		return s.consumer.Name() == name
	})
	return len(eb.subscriptions) != before
}

// Publish delivers an event to every matching consumer before returning.
// Consumer errors and panics are recorded and never reach the publisher.
func (eb *EventBus) Publish(topic Topic, action, key string, payload any) {
	if eb == nil {
		return
	}

	event := Event{
		Topic:     topic,
		Action:    action,
		Key:       key,
		Payload:   payload,
		Timestamp: eb.now(),
	}
	eb.stats.published.Add(1)

	eb.mu.RLock()
	targets := make([]EventConsumer, 0, len(eb.subscriptions))
	for _, s := range eb.subscriptions {
		if len(s.topics) == 0 || slices.Contains(s.topics, topic) {
			targets = append(targets, s.consumer)
		}
	}
	eb.mu.RUnlock()

	if len(targets) == 0 {
		eb.stats.unrouted.Add(1)
		return
	}

	for _, consumer := range targets {
		eb.deliver(consumer, event)
	}
}

func (eb *EventBus) deliver(consumer EventConsumer, event Event) {
	defer func() {
		if r := recover(); r != nil {
			eb.stats.errors.Add(1)
			eb.logger.Error("consumer panicked",
				logger.String("consumer", consumer.Name()),
				logger.Any("panic", r),
				logger.String("topic", string(event.Topic)),
				logger.String("action", event.Action))
		}
	}()

	if err := consumer.ProcessEvent(event); err != nil {
		eb.stats.errors.Add(1)
		eb.logger.Warn("consumer error",
			logger.String("consumer", consumer.Name()),
			logger.Error(err),
			logger.String("topic", string(event.Topic)),
			logger.String("action", event.Action))
		return
	}
	eb.stats.processed.Add(1)
}

// GetStats returns current event bus statistics
func (eb *EventBus) GetStats() EventBusStats {
	if eb == nil {
		return EventBusStats{}
	}
	return EventBusStats{
		EventsPublished: eb.stats.published.Load(),
		EventsProcessed: eb.stats.processed.Load(),
		EventsUnrouted:  eb.stats.unrouted.Load(),
		ConsumerErrors:  eb.stats.errors.Load(),
	}
}
