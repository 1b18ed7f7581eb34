// Package events provides a synchronous event bus that lets stores announce
// state changes to presentation layers without calling back into them.
package events

import "time"

// Topic groups events by the store that emits them
type Topic string

const (
	TopicCatalog  Topic = "catalog"
	TopicJournal  Topic = "journal"
	TopicProgress Topic = "progress"
	TopicGame     Topic = "game"
	TopicSettings Topic = "settings"
	TopicNotice   Topic = "notice"
)

// Event describes one state change. Key identifies the affected entity
// (a bird name, an observation key, a progress set name) and may be empty
// for bulk changes.
type Event struct {
	Topic     Topic
	Action    string
	Key       string
	Payload   any
	Timestamp time.Time
}

// EventConsumer receives events from the bus
type EventConsumer interface {
	// Name returns the consumer name for identification
	Name() string

	// ProcessEvent handles a single event. Errors are counted and logged,
	// never returned to the publisher.
	ProcessEvent(event Event) error
}

// ConsumerFunc adapts a function to EventConsumer
type ConsumerFunc struct {
	ConsumerName string
	Fn           func(Event) error
}

func (c ConsumerFunc) Name() string { return c.ConsumerName }

func (c ConsumerFunc) ProcessEvent(event Event) error { return c.Fn(event) }

// EventBusStats contains runtime statistics for monitoring
type EventBusStats struct {
	EventsPublished uint64
	EventsProcessed uint64
	EventsUnrouted  uint64 // published with no subscriber for the topic
	ConsumerErrors  uint64
}
