package journal

import (
	"encoding/json"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/futurework-1/NestEgg-Journal/internal/datastore"
	"github.com/futurework-1/NestEgg-Journal/internal/dataset"
	"github.com/futurework-1/NestEgg-Journal/internal/errors"
	"github.com/futurework-1/NestEgg-Journal/internal/events"
	"github.com/futurework-1/NestEgg-Journal/internal/logger"
	"github.com/futurework-1/NestEgg-Journal/internal/progress"
)

// Event actions published on events.TopicJournal
const (
	ActionLoaded  = "loaded"
	ActionAdded   = "added"
	ActionCleared = "history-cleared"
)

// Store is the observation journal
type Store struct {
	store       datastore.Interface
	sawBird     *progress.Set
	foundEgg    *progress.Set
	watchedNest *progress.Set
	bus         *events.EventBus
	logger      logger.Logger

	mu           sync.RWMutex
	seedPath     string
	observations []Observation
}

// NewStore creates an empty journal backed by store. Call Load to read the
// seed and user observations.
func NewStore(store datastore.Interface, log logger.Logger, bus *events.EventBus) *Store {
	if log == nil {
		log = logger.Discard()
	}
	return &Store{
		store:       store,
		sawBird:     progress.New(store, datastore.KeySawBird, log, bus),
		foundEgg:    progress.New(store, datastore.KeyFoundEgg, log, bus),
		watchedNest: progress.New(store, datastore.KeyWatchedNest, log, bus),
		bus:         bus,
		logger:      log.Module("journal"),
	}
}

// Load rebuilds the journal from the seed dataset (bundled, or the file at
// seedPath) followed by the persisted user observations. A source that
// fails to read or decode contributes nothing; failures are logged and
// joined into the returned error.
func (s *Store) Load(seedPath string) error {
	s.mu.Lock()
	s.seedPath = seedPath
	s.mu.Unlock()
	return s.reload()
}

func (s *Store) reload() error {
	s.mu.Lock()
	seed, seedErr := s.readSeed()
	if seedErr != nil {
		s.logger.Error("failed to load seed observations", logger.Error(seedErr))
	}
	user, userErr := s.readUser()
	if userErr != nil {
		s.logger.Error("failed to load user observations", logger.Error(userErr))
	}
	s.observations = slices.Concat(seed, user)
	total := len(s.observations)
	s.mu.Unlock()

	s.logger.Info("journal loaded",
		logger.Int("seed", len(seed)),
		logger.Int("user", len(user)))
	s.bus.Publish(events.TopicJournal, ActionLoaded, "", total)
	return errors.Join(seedErr, userErr)
}

func (s *Store) readSeed() ([]Observation, error) {
	data, err := dataset.Read(dataset.Observations, s.seedPath)
	if err != nil {
		return nil, err
	}
	var seed []Observation
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, errors.New(err).
			Component("journal").
			Category(errors.CategoryDatasetLoad).
			Context("dataset", dataset.Observations).
			Build()
	}
	for i := range seed {
		seed[i].ID = uuid.NewString()
		seed[i].Seed = true
	}
	return seed, nil
}

// readUser decodes the persisted user list; absent means empty
func (s *Store) readUser() ([]Observation, error) {
	var user []Observation
	if _, err := datastore.LoadJSON(s.store, datastore.KeyUserObservations, &user); err != nil {
		return nil, err
	}
	for i := range user {
		user[i].ID = uuid.NewString()
	}
	return user, nil
}

// Add appends o to the journal and persists the user list. The persisted
// list gains o unless it already holds an entry with the same key. A
// persistence failure is returned; o stays in memory for this session.
func (s *Store) Add(o Observation) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.Seed = false

	s.mu.Lock()
	s.observations = append(s.observations, o)
	err := s.persistUser(o)
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("failed to persist observation",
			logger.String("key", Key(o)),
			logger.Error(err))
		return err
	}

	s.logger.Info("observation added", logger.String("key", Key(o)))
	s.bus.Publish(events.TopicJournal, ActionAdded, Key(o), o)
	return nil
}

func (s *Store) persistUser(latest Observation) error {
	var user []Observation
	found, err := datastore.LoadJSON(s.store, datastore.KeyUserObservations, &user)
	if err != nil {
		// An unreadable list is left as is rather than overwritten
		return err
	}
	if !found {
		return datastore.SaveJSON(s.store, datastore.KeyUserObservations, []Observation{latest})
	}

	key := Key(latest)
	if slices.ContainsFunc(user, func(o Observation) bool { return Key(o) == key }) {
		s.logger.Debug("observation already persisted", logger.String("key", key))
	} else {
		user = append(user, latest)
	}
	return datastore.SaveJSON(s.store, datastore.KeyUserObservations, user)
}

// Observations returns seed entries followed by user entries
func (s *Store) Observations() []Observation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.observations)
}

// UserObservations returns the in-memory user entries
func (s *Store) UserObservations() []Observation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Observation
	for _, o := range s.observations {
		if !o.Seed {
			out = append(out, o)
		}
	}
	return out
}

// Len returns the number of entries in memory
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observations)
}

// Find returns the first entry with the given title and date
func (s *Store) Find(title, date string) (Observation, bool) {
	key := title + "_" + date
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.observations, func(o Observation) bool { return Key(o) == key })
	if i < 0 {
		return Observation{}, false
	}
	return s.observations[i], true
}

// ToggleSawBird flips the saw-bird mark for o and reports the new state
func (s *Store) ToggleSawBird(o Observation) (bool, error) {
	return s.sawBird.Toggle(Key(o))
}

// ToggleFoundEgg flips the found-egg mark for o
func (s *Store) ToggleFoundEgg(o Observation) (bool, error) {
	return s.foundEgg.Toggle(Key(o))
}

// ToggleWatchedNest flips the watched-nest mark for o
func (s *Store) ToggleWatchedNest(o Observation) (bool, error) {
	return s.watchedNest.Toggle(Key(o))
}

// DidSawBird reports whether o carries the saw-bird mark
func (s *Store) DidSawBird(o Observation) bool {
	return s.sawBird.Contains(Key(o))
}

// DidFindEgg reports whether o carries the found-egg mark
func (s *Store) DidFindEgg(o Observation) bool {
	return s.foundEgg.Contains(Key(o))
}

// DidWatchNest reports whether o carries the watched-nest mark
func (s *Store) DidWatchNest(o Observation) bool {
	return s.watchedNest.Contains(Key(o))
}

// ClearAllObservationStates empties the three mark sets
func (s *Store) ClearAllObservationStates() error {
	return errors.Join(s.sawBird.Clear(), s.foundEgg.Clear(), s.watchedNest.Clear())
}

// ClearUserHistory deletes every user observation and mark, then reloads
// so only seed entries remain.
func (s *Store) ClearUserHistory() error {
	if err := s.store.Delete(datastore.KeyUserObservations); err != nil {
		s.logger.Error("failed to delete user observations", logger.Error(err))
		return err
	}
	if err := s.ClearAllObservationStates(); err != nil {
		return err
	}

	err := s.reload()
	s.bus.Publish(events.TopicJournal, ActionCleared, "", nil)
	return err
}
