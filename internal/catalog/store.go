package catalog

import (
	"encoding/json"
	"slices"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/futurework-1/NestEgg-Journal/internal/datastore"
	"github.com/futurework-1/NestEgg-Journal/internal/dataset"
	"github.com/futurework-1/NestEgg-Journal/internal/errors"
	"github.com/futurework-1/NestEgg-Journal/internal/events"
	"github.com/futurework-1/NestEgg-Journal/internal/logger"
	"github.com/futurework-1/NestEgg-Journal/internal/progress"
)

// Event actions published on events.TopicCatalog
const (
	ActionLoaded = "loaded"
)

// Store is the bird catalog plus the studied and favourite sets
type Store struct {
	studied    *progress.Set
	favourites *progress.Set
	bus        *events.EventBus
	logger     logger.Logger

	mu    sync.RWMutex
	birds []Bird
}

// NewStore creates an empty catalog whose progress sets live in store.
// Call Load to read the bird data.
func NewStore(store datastore.Interface, log logger.Logger, bus *events.EventBus) *Store {
	if log == nil {
		log = logger.Discard()
	}
	return &Store{
		studied:    progress.New(store, datastore.KeyStudiedBirds, log, bus),
		favourites: progress.New(store, datastore.KeyFavouriteBirds, log, bus),
		bus:        bus,
		logger:     log.Module("catalog"),
	}
}

// Load replaces the catalog with the bundled encyclopedia, or the file at
// path when it is not empty. On failure the catalog is empty and the
// failure is logged; the returned error is informational.
func (s *Store) Load(path string) error {
	birds, err := decodeBirds(path)
	if err != nil {
		s.logger.Error("failed to load bird catalog", logger.Error(err))
	}

	s.mu.Lock()
	s.birds = birds
	s.mu.Unlock()

	s.logger.Info("bird catalog loaded", logger.Int("birds", len(birds)))
	s.bus.Publish(events.TopicCatalog, ActionLoaded, "", len(birds))
	return err
}

func decodeBirds(path string) ([]Bird, error) {
	data, err := dataset.Read(dataset.Encyclopedia, path)
	if err != nil {
		return nil, err
	}
	var birds []Bird
	if err := json.Unmarshal(data, &birds); err != nil {
		return nil, errors.New(err).
			Component("catalog").
			Category(errors.CategoryDatasetLoad).
			Context("dataset", dataset.Encyclopedia).
			Build()
	}
	for i := range birds {
		birds[i].ID = uuid.NewString()
	}
	return birds, nil
}

// Birds returns the catalog in dataset order
func (s *Store) Birds() []Bird {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.birds)
}

// Len returns the number of birds
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.birds)
}

// Find looks a bird up by name
func (s *Store) Find(name string) (Bird, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.birds, func(b Bird) bool { return b.Name == name })
	if i < 0 {
		return Bird{}, false
	}
	return s.birds[i], true
}

// Lookup is Find returning a not-found error
func (s *Store) Lookup(name string) (Bird, error) {
	b, ok := s.Find(name)
	if !ok {
		return Bird{}, errors.NotFound("catalog", "bird", name)
	}
	return b, nil
}

// Search returns the birds passing f, sorted by name in English collation
// order.
func (s *Store) Search(f Filter) []Bird {
	s.mu.RLock()
	out := make([]Bird, 0, len(s.birds))
	for i := range s.birds {
		if f.Matches(&s.birds[i]) {
			out = append(out, s.birds[i])
		}
	}
	s.mu.RUnlock()

	c := collate.New(language.English, collate.IgnoreCase)
	slices.SortStableFunc(out, func(a, b Bird) int {
		return c.CompareString(a.Name, b.Name)
	})
	return out
}

// ToggleStudied flips whether b is studied and returns the new state
func (s *Store) ToggleStudied(b Bird) (bool, error) {
	return s.studied.Toggle(b.Name)
}

// ToggleFavourite flips whether b is a favourite
func (s *Store) ToggleFavourite(b Bird) (bool, error) {
	return s.favourites.Toggle(b.Name)
}

// IsStudied reports whether b is in the studied set
func (s *Store) IsStudied(b Bird) bool {
	return s.studied.Contains(b.Name)
}

// IsFavourite reports whether b is in the favourites set
func (s *Store) IsFavourite(b Bird) bool {
	return s.favourites.Contains(b.Name)
}

// Studied lists studied bird names in ascending order
func (s *Store) Studied() []string {
	return s.studied.Keys()
}

// Favourites lists favourite bird names in ascending order
func (s *Store) Favourites() []string {
	return s.favourites.Keys()
}

// ClearAllProgress empties both sets. Both are attempted even if the first
// fails.
func (s *Store) ClearAllProgress() error {
	return errors.Join(s.studied.Clear(), s.favourites.Clear())
}

// ClearFavourites empties the favourites set
func (s *Store) ClearFavourites() error {
	return s.favourites.Clear()
}

// ClearStudiedBirds empties the studied set
func (s *Store) ClearStudiedBirds() error {
	return s.studied.Clear()
}
