package game

import (
	"math/rand/v2"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/futurework-1/NestEgg-Journal/internal/datastore"
	"github.com/futurework-1/NestEgg-Journal/internal/events"
	"github.com/futurework-1/NestEgg-Journal/internal/schedule"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeRecorder struct {
	mu       sync.Mutex
	started  int
	finished []Result
}

func (f *fakeRecorder) RecordGameStarted() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started++
}

func (f *fakeRecorder) RecordGameFinished(score, pairs, moves int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finished = append(f.finished, Result{Score: score, Pairs: pairs, Moves: moves})
}

type fixture struct {
	clock  *schedule.Virtual
	store  *datastore.MemoryStore
	best   *BestStore
	engine *Engine
	rules  Rules
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		clock: schedule.NewVirtual(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)),
		store: datastore.NewMemoryStore(),
		rules: DefaultRules(),
	}
	f.best = NewBestStore(f.store, nil)
	opts = append([]Option{
		WithScheduler(f.clock),
		WithRand(rand.New(rand.NewPCG(7, 11))),
	}, opts...)
	f.engine = NewEngine(f.best, opts...)
	t.Cleanup(f.engine.Close)
	return f
}

// idsBySymbol groups the current card IDs by symbol
func (f *fixture) idsBySymbol() map[Symbol][]string {
	out := make(map[Symbol][]string)
	for _, c := range f.engine.Snapshot().Cards {
		out[c.Symbol] = append(out[c.Symbol], c.ID)
	}
	return out
}

func (f *fixture) matchPair(t *testing.T, s Symbol) {
	t.Helper()
	ids := f.idsBySymbol()[s]
	require.True(t, f.engine.Tap(ids[0]))
	require.True(t, f.engine.Tap(ids[1]))
	f.clock.Advance(f.rules.MatchDelay)
}

func (f *fixture) mismatch(t *testing.T) {
	t.Helper()
	ids := f.idsBySymbol()
	require.True(t, f.engine.Tap(ids[Symbols[0]][0]))
	require.True(t, f.engine.Tap(ids[Symbols[1]][0]))
	f.clock.Advance(f.rules.MismatchDelay)
}

func cardByID(s State, id string) Card {
	i := slices.IndexFunc(s.Cards, func(c Card) bool { return c.ID == id })
	return s.Cards[i]
}

func TestEngineSetup(t *testing.T) {
	f := newFixture(t)
	s := f.engine.Snapshot()
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Len(t, s.Cards, 12)
	assert.Equal(t, "0:00", f.engine.Clock())
	assert.Zero(t, f.clock.Pending(), "clock does not run before start")

	f.engine.Retry()
	var orders [][]Symbol
	for range 5 {
		f.engine.Setup()
		var order []Symbol
		for _, c := range f.engine.Snapshot().Cards {
			order = append(order, c.Symbol)
		}
		orders = append(orders, order)
	}
	distinct := false
	for _, o := range orders[1:] {
		if !slices.Equal(o, orders[0]) {
			distinct = true
		}
	}
	assert.True(t, distinct, "each setup shuffles")
}

func TestEngineTapsBeforeStartAreIgnored(t *testing.T) {
	f := newFixture(t)
	id := f.engine.Snapshot().Cards[0].ID
	assert.False(t, f.engine.Tap(id))
	assert.Zero(t, f.engine.Snapshot().Moves)
}

func TestEngineMatchEndToEnd(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.engine.Start())

	ids := f.idsBySymbol()[Symbols[2]]
	require.True(t, f.engine.Tap(ids[0]))
	require.True(t, f.engine.Tap(ids[1]))
	assert.Equal(t, PhaseResolving, f.engine.Snapshot().Phase)

	f.clock.Advance(f.rules.MatchDelay - time.Millisecond)
	assert.Equal(t, PhaseResolving, f.engine.Snapshot().Phase)

	f.clock.Advance(time.Millisecond)
	s := f.engine.Snapshot()
	assert.Equal(t, PhaseRunning, s.Phase)
	assert.Equal(t, 1, s.Pairs)
	assert.Equal(t, 2, s.Moves)
	assert.Empty(t, s.Pending)
	assert.True(t, cardByID(s, ids[0]).Matched)
	assert.True(t, cardByID(s, ids[1]).Matched)

	// matched cards stay out of play
	assert.False(t, f.engine.Tap(ids[0]))
	assert.Equal(t, 2, f.engine.Snapshot().Moves)
}

func TestEngineMismatchEndToEnd(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.engine.Start())

	ids := f.idsBySymbol()
	a, b := ids[Symbols[0]][0], ids[Symbols[3]][0]
	require.True(t, f.engine.Tap(a))
	assert.False(t, f.engine.Tap(a), "already flipped")
	require.True(t, f.engine.Tap(b))
	assert.False(t, f.engine.Tap(ids[Symbols[4]][0]), "two cards already up")

	f.clock.Advance(f.rules.MatchDelay)
	assert.Equal(t, PhaseResolving, f.engine.Snapshot().Phase, "mismatch waits longer than a match")

	f.clock.Advance(f.rules.MismatchDelay - f.rules.MatchDelay)
	s := f.engine.Snapshot()
	assert.Equal(t, PhaseRunning, s.Phase)
	assert.Equal(t, 2, s.Moves)
	assert.Zero(t, s.Pairs)
	assert.Empty(t, s.Pending)
	assert.False(t, cardByID(s, a).Flipped)
	assert.False(t, cardByID(s, b).Flipped)
}

func TestEnginePerfectGame(t *testing.T) {
	rec := &fakeRecorder{}
	bus := events.NewEventBus(nil)
	var mu sync.Mutex
	var actions []string
	require.NoError(t, bus.Subscribe(events.ConsumerFunc{
		ConsumerName: "test",
		Fn: func(e events.Event) error {
			mu.Lock()
			defer mu.Unlock()
			actions = append(actions, e.Action)
			return nil
		},
	}, events.TopicGame))

	f := newFixture(t, WithRecorder(rec), WithEventBus(bus))
	require.NoError(t, f.engine.Start())
	for _, s := range Symbols {
		f.matchPair(t, s)
	}

	s := f.engine.Snapshot()
	assert.Equal(t, PhaseEnded, s.Phase)
	assert.Equal(t, 3, s.Score)
	assert.Equal(t, 12, s.Moves)
	assert.False(t, s.ResultsVisible)
	assert.Equal(t, "0:03", f.engine.Clock())
	assert.Equal(t, 1, f.clock.Pending(), "only the reveal is left")

	f.clock.Advance(f.rules.RevealDelay)
	assert.True(t, f.engine.Snapshot().ResultsVisible)
	assert.Zero(t, f.clock.Pending())

	best, ok := f.engine.Best()
	require.True(t, ok)
	assert.Equal(t, Record{Score: 3, Pairs: 6, Moves: 12}, best)

	assert.Equal(t, 1, rec.started)
	assert.Equal(t, []Result{{Score: 3, Pairs: 6, Moves: 12}}, rec.finished)

	mu.Lock()
	defer mu.Unlock()
	// the deal in NewEngine is announced too
	assert.Equal(t, []string{ActionDealt, ActionStarted, ActionFinished, ActionBest, ActionRevealed}, actions)
}

func TestEngineCompleteGameOverPerfectMoves(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.engine.Start())
	f.mismatch(t)
	f.mismatch(t)
	for _, s := range Symbols {
		f.matchPair(t, s)
	}

	s := f.engine.Snapshot()
	assert.Equal(t, PhaseEnded, s.Phase)
	assert.Equal(t, 16, s.Moves)
	assert.Equal(t, 2, s.Score)
}

func TestEngineTimeout(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.engine.Start())
	for _, s := range Symbols[:3] {
		f.matchPair(t, s)
	}

	f.clock.Advance(f.rules.TimeLimit)
	s := f.engine.Snapshot()
	assert.Equal(t, PhaseEnded, s.Phase)
	assert.Equal(t, f.rules.Budget(), s.Elapsed)
	assert.Equal(t, 1, s.Score)
	assert.Equal(t, "1:00", f.engine.Clock())

	f.clock.Advance(10 * time.Second)
	assert.Equal(t, f.rules.Budget(), f.engine.Snapshot().Elapsed, "no ticks after the end")
	assert.Error(t, f.engine.Start())
}

func TestEngineRetryDropsStaleResolution(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.engine.Start())
	ids := f.idsBySymbol()[Symbols[0]]
	require.True(t, f.engine.Tap(ids[0]))
	require.True(t, f.engine.Tap(ids[1]))

	f.engine.Retry()
	assert.Zero(t, f.clock.Pending())
	require.NoError(t, f.engine.Start())
	f.clock.Advance(f.rules.MismatchDelay)

	s := f.engine.Snapshot()
	assert.Equal(t, 2, s.Round)
	assert.Equal(t, PhaseRunning, s.Phase)
	assert.Zero(t, s.Pairs)
	assert.Zero(t, s.Moves)
	for _, c := range s.Cards {
		assert.False(t, c.Flipped)
	}
	assert.Equal(t, 1, s.Elapsed)
}

func TestEngineCloseStopsTicker(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.engine.Start())
	f.clock.Advance(3 * time.Second)
	ids := f.idsBySymbol()[Symbols[0]]
	require.True(t, f.engine.Tap(ids[0]))
	require.True(t, f.engine.Tap(ids[1]))

	f.engine.Close()
	f.engine.Close()
	assert.Zero(t, f.clock.Pending())

	f.clock.Advance(time.Minute)
	s := f.engine.Snapshot()
	assert.Equal(t, 3, s.Elapsed)
	assert.Equal(t, PhaseResolving, s.Phase)
	assert.False(t, f.engine.Tap(s.Cards[0].ID))
}

func TestEngineTapAt(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.engine.Start())

	ok, err := f.engine.TapAt(0)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.engine.TapAt(12)
	assert.Error(t, err)
	_, err = f.engine.TapAt(-1)
	assert.Error(t, err)
}

func TestEngineWithRealClock(t *testing.T) {
	rules := DefaultRules()
	rules.TimeLimit = 30 * time.Millisecond
	rules.Tick = 10 * time.Millisecond
	rules.RevealDelay = 10 * time.Millisecond

	e := NewEngine(nil, WithRules(rules))
	defer e.Close()
	require.NoError(t, e.Start())

	require.Eventually(t, func() bool {
		return e.Snapshot().ResultsVisible
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 3, e.Snapshot().Elapsed)

	_, ok := e.Best()
	assert.False(t, ok)
}

func symbolOrder(e *Engine) []Symbol {
	var out []Symbol
	for _, c := range e.Snapshot().Cards {
		out = append(out, c.Symbol)
	}
	return out
}

func TestRetryDealsFreshDeck(t *testing.T) {
	t.Run("same source across retry", func(t *testing.T) {
		f := newFixture(t)
		first := f.engine.Snapshot().Cards
		f.engine.Retry()
		second := f.engine.Snapshot().Cards

		assert.NotEqual(t, first, second)
		for _, c := range second {
			assert.False(t, slices.ContainsFunc(first, func(o Card) bool { return o.ID == c.ID }),
				"card %s reused from the previous deck", c.ID)
		}
	})

	t.Run("different sources", func(t *testing.T) {
		a := newFixture(t, WithRand(rand.New(rand.NewPCG(1, 2))))
		b := newFixture(t, WithRand(rand.New(rand.NewPCG(90, 17))))
		a.engine.Retry()
		b.engine.Retry()
		assert.NotEqual(t, symbolOrder(a.engine), symbolOrder(b.engine))
	})
}
