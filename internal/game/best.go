package game

import (
	"sync"

	"github.com/futurework-1/NestEgg-Journal/internal/datastore"
	"github.com/futurework-1/NestEgg-Journal/internal/errors"
	"github.com/futurework-1/NestEgg-Journal/internal/logger"
)

// NoMoves stands in for the move count of a missing record, so any real
// game compares as fewer moves.
const NoMoves = 999

// Record is the best result so far
type Record struct {
	Score int `json:"score"`
	Pairs int `json:"pairs"`
	Moves int `json:"moves"`
}

// Beats reports whether r is strictly better than other: a higher score, or
// the same score in fewer moves.
func (r Record) Beats(other Record) bool {
	return r.Score > other.Score || (r.Score == other.Score && r.Moves < other.Moves)
}

// BestStore persists the best record under the bestScore, bestPairs and
// bestMoves keys.
type BestStore struct {
	store  datastore.Interface
	logger logger.Logger

	mu sync.Mutex
}

func NewBestStore(store datastore.Interface, log logger.Logger) *BestStore {
	if log == nil {
		log = logger.Discard()
	}
	return &BestStore{store: store, logger: log.Module("game")}
}

// Load returns the stored record and whether one exists. A record exists
// once bestScore has been written. A missing or unreadable move count reads
// as NoMoves.
func (b *BestStore) Load() (Record, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.load()
}

func (b *BestStore) load() (Record, bool) {
	none := Record{Moves: NoMoves}

	score, ok, err := datastore.LoadInt(b.store, datastore.KeyBestScore)
	if err != nil {
		b.logger.Warn("failed to read best score", logger.Error(err))
		return none, false
	}
	if !ok {
		return none, false
	}

	pairs, _, err := datastore.LoadInt(b.store, datastore.KeyBestPairs)
	if err != nil {
		b.logger.Warn("failed to read best pairs", logger.Error(err))
	}
	moves, ok, err := datastore.LoadInt(b.store, datastore.KeyBestMoves)
	if err != nil {
		b.logger.Warn("failed to read best moves", logger.Error(err))
	}
	if !ok || err != nil || moves <= 0 {
		moves = NoMoves
	}
	return Record{Score: score, Pairs: pairs, Moves: moves}, true
}

// Submit stores candidate when there is no record yet or it beats the
// current one. It reports whether the record was replaced.
func (b *BestStore) Submit(candidate Record) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	current, ok := b.load()
	if ok && !candidate.Beats(current) {
		return false, nil
	}

	// bestScore last: its presence marks a complete record
	err := errors.Join(
		datastore.SaveJSON(b.store, datastore.KeyBestPairs, candidate.Pairs),
		datastore.SaveJSON(b.store, datastore.KeyBestMoves, candidate.Moves),
	)
	if err == nil {
		err = datastore.SaveJSON(b.store, datastore.KeyBestScore, candidate.Score)
	}
	if err != nil {
		b.logger.Error("failed to persist best score", logger.Error(err))
		return false, err
	}

	b.logger.Info("new best score",
		logger.Int("score", candidate.Score),
		logger.Int("pairs", candidate.Pairs),
		logger.Int("moves", candidate.Moves))
	return true, nil
}
