// Package progress tracks persisted sets of string keys: studied and
// favourite birds, and the saw-bird, found-egg and watched-nest marks on
// journal observations.
package progress

import (
	"maps"
	"slices"
	"sync"

	"github.com/futurework-1/NestEgg-Journal/internal/datastore"
	"github.com/futurework-1/NestEgg-Journal/internal/events"
	"github.com/futurework-1/NestEgg-Journal/internal/logger"
)

// Event actions published on events.TopicProgress. The event key is the
// member, the payload the set name.
const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
	ActionCleared = "cleared"
)

// Set is a durable set of keys. Every mutation is written to the store
// before the in-memory state changes; a failed write leaves the set as it
// was.
type Set struct {
	name   string
	store  datastore.Interface
	bus    *events.EventBus
	logger logger.Logger

	mu      sync.RWMutex
	members map[string]struct{}
}

// New loads the set stored under name. A missing key is an empty set; an
// undecodable value is logged and also treated as empty.
func New(store datastore.Interface, name string, log logger.Logger, bus *events.EventBus) *Set {
	if log == nil {
		log = logger.Discard()
	}
	s := &Set{
		name:    name,
		store:   store,
		bus:     bus,
		logger:  log.Module("progress").With(logger.String("set", name)),
		members: make(map[string]struct{}),
	}
	s.load()
	return s
}

func (s *Set) load() {
	list, err := datastore.LoadStrings(s.store, s.name)
	if err != nil {
		s.logger.Warn("failed to load progress set, starting empty", logger.Error(err))
		return
	}
	for _, k := range list {
		s.members[k] = struct{}{}
	}
	s.logger.Debug("progress set loaded", logger.Int("members", len(s.members)))
}

// Name returns the store key of the set
func (s *Set) Name() string { return s.name }

// Contains reports whether key is a member
func (s *Set) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[key]
	return ok
}

// Toggle adds key when absent and removes it when present. It returns the
// membership after the call.
func (s *Set) Toggle(key string) (bool, error) {
	s.mu.Lock()
	_, present := s.members[key]

	next := maps.Clone(s.members)
	if present {
		delete(next, key)
	} else {
		next[key] = struct{}{}
	}

	if err := datastore.SaveStrings(s.store, s.name, slices.Collect(maps.Keys(next))); err != nil {
		s.mu.Unlock()
		s.logger.Error("failed to persist progress set",
			logger.String("key", key),
			logger.Error(err))
		return present, err
	}
	s.members = next
	s.mu.Unlock()

	action := ActionAdded
	if present {
		action = ActionRemoved
	}
	s.bus.Publish(events.TopicProgress, action, key, s.name)
	return !present, nil
}

// Clear removes every member
func (s *Set) Clear() error {
	s.mu.Lock()
	if err := datastore.SaveStrings(s.store, s.name, nil); err != nil {
		s.mu.Unlock()
		s.logger.Error("failed to clear progress set", logger.Error(err))
		return err
	}
	cleared := len(s.members)
	s.members = make(map[string]struct{})
	s.mu.Unlock()

	s.logger.Debug("progress set cleared", logger.Int("removed", cleared))
	s.bus.Publish(events.TopicProgress, ActionCleared, "", s.name)
	return nil
}

// Keys returns the members in ascending order
func (s *Set) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.members))
}

// Len returns the number of members
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members)
}
