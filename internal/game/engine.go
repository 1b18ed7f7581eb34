package game

import (
	"math/rand/v2"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/futurework-1/NestEgg-Journal/internal/errors"
	"github.com/futurework-1/NestEgg-Journal/internal/events"
	"github.com/futurework-1/NestEgg-Journal/internal/logger"
	"github.com/futurework-1/NestEgg-Journal/internal/schedule"
)

// Event actions published on events.TopicGame. The event key is the round
// number, the payload a Result for finished and a Record for best.
const (
	ActionDealt    = "dealt"
	ActionStarted  = "started"
	ActionFinished = "finished"
	ActionBest     = "best"
	ActionRevealed = "revealed"
)

// Recorder receives game outcomes for metrics
type Recorder interface {
	RecordGameStarted()
	RecordGameFinished(score, pairs, moves int, elapsed time.Duration)
}

// Option configures an Engine
type Option func(*Engine)

// WithRules replaces the default rules
func WithRules(r Rules) Option {
	return func(e *Engine) { e.rules = r }
}

// WithScheduler sets the clock that drives ticks and delays
func WithScheduler(s schedule.Scheduler) Option {
	return func(e *Engine) { e.sched = s }
}

// WithRand sets the shuffle source
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithRecorder reports outcomes to r
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithEventBus publishes game events on bus
func WithEventBus(bus *events.EventBus) Option {
	return func(e *Engine) { e.bus = bus }
}

// WithLogger sets the engine logger
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.logger = log.Module("game")
		}
	}
}

// Engine runs Step against a scheduler. It is safe for concurrent use.
type Engine struct {
	rules    Rules
	sched    schedule.Scheduler
	rng      *rand.Rand
	best     *BestStore
	recorder Recorder
	bus      *events.EventBus
	logger   logger.Logger

	mu      sync.Mutex
	state   State
	ticker  *schedule.Ticker
	timers  map[uint64]schedule.Timer
	seq     uint64
	started time.Time
	closed  bool
}

// NewEngine returns an engine with a freshly dealt deck in PhaseIdle. best
// may be nil, in which case results are not persisted.
func NewEngine(best *BestStore, opts ...Option) *Engine {
	e := &Engine{
		rules:  DefaultRules(),
		sched:  schedule.Real{},
		best:   best,
		logger: logger.Discard().Module("game"),
		timers: make(map[uint64]schedule.Timer),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Setup()
	return e
}

// Setup deals a new shuffled deck and returns to PhaseIdle. Pending
// deferrals from the previous round are cancelled.
func (e *Engine) Setup() {
	e.dispatch(Deal{Deck: NewDeck(e.rng)})
}

// Retry is Setup after a finished or abandoned game
func (e *Engine) Retry() {
	e.Setup()
}

// Start starts the clock. It fails unless the game is idle.
func (e *Engine) Start() error {
	if ok := e.dispatch(Start{}); !ok {
		return e.stateError("start", "game is not idle")
	}
	return nil
}

// Tap flips the card with the given ID. It reports whether the tap was
// accepted; taps on flipped or matched cards, unknown IDs, and taps outside
// PhaseRunning are ignored.
func (e *Engine) Tap(cardID string) bool {
	return e.dispatch(Tap{CardID: cardID})
}

// TapAt flips the card at board position pos
func (e *Engine) TapAt(pos int) (bool, error) {
	e.mu.Lock()
	if pos < 0 || pos >= len(e.state.Cards) {
		n := len(e.state.Cards)
		e.mu.Unlock()
		return false, errors.Newf("card position %d out of range [0,%d)", pos, n).
			Component("game").
			Category(errors.CategoryValidation).
			Context("position", pos).
			Build()
	}
	id := e.state.Cards[pos].ID
	e.mu.Unlock()
	return e.Tap(id), nil
}

// Snapshot returns a copy of the current state
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Clock returns the elapsed time as m:ss
func (e *Engine) Clock() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return FormatClock(int(time.Duration(e.state.Elapsed) * e.rules.Tick / time.Second))
}

// Rules returns the rules the engine plays by
func (e *Engine) Rules() Rules {
	return e.rules
}

// Best returns the persisted best record and whether one exists
func (e *Engine) Best() (Record, bool) {
	if e.best == nil {
		return Record{Moves: NoMoves}, false
	}
	return e.best.Load()
}

// Close stops the ticker and every pending deferral. Later calls are no-ops
// and later events are ignored.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.cancelAll()
	e.logger.Debug("game closed", logger.Int("round", e.state.Round))
}

func (e *Engine) stateError(op, msg string) error {
	s := e.Snapshot()
	return errors.Newf("%s: %s", op, msg).
		Component("game").
		Category(errors.CategoryState).
		Context("phase", s.Phase.String()).
		Context("round", s.Round).
		Build()
}

// dispatch feeds ev through Step and runs the resulting commands. It reports
// whether the state changed. Side effects that leave the engine (persisting,
// metrics, events) run after the lock is released.
func (e *Engine) dispatch(ev Event) bool {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	prev := e.state
	next, cmds := Step(prev, ev, e.rules)
	changed := len(cmds) > 0 || !sameState(prev, next)
	e.state = next

	after := e.announce(ev, prev, next)
	for _, cmd := range cmds {
		after = append(after, e.execute(cmd)...)
	}
	e.mu.Unlock()

	for _, fn := range after {
		fn()
	}
	return changed
}

// execute runs cmd with e.mu held and returns deferred work.
func (e *Engine) execute(cmd Command) []func() {
	switch c := cmd.(type) {
	case StopTicker:
		if e.ticker != nil {
			e.ticker.Stop()
			e.ticker = nil
		}
		for id, t := range e.timers {
			t.Stop()
			delete(e.timers, id)
		}

	case StartTicker:
		round := c.Round
		e.started = e.sched.Now()
		e.ticker = schedule.Every(e.sched, e.rules.Tick, func() {
			e.dispatch(Tick{Round: round})
		})
		e.logger.Debug("game clock started", logger.Int("round", round))
		if e.recorder != nil {
			return []func(){e.recorder.RecordGameStarted}
		}

	case Schedule:
		e.seq++
		id, deferred := e.seq, c.Event
		e.timers[id] = e.sched.AfterFunc(c.Delay, func() {
			e.mu.Lock()
			delete(e.timers, id)
			e.mu.Unlock()
			e.dispatch(deferred)
		})

	case Finished:
		return e.finish(c.Result)
	}
	return nil
}

// finish logs res and returns the metrics and best-record work for it.
func (e *Engine) finish(res Result) []func() {
	elapsed := e.sched.Now().Sub(e.started)
	e.logger.Info("game finished",
		logger.Int("round", res.Round),
		logger.Int("score", res.Score),
		logger.Int("pairs", res.Pairs),
		logger.Int("moves", res.Moves),
		logger.Duration("elapsed", elapsed))

	var after []func()
	if e.recorder != nil {
		rec := e.recorder
		after = append(after, func() { rec.RecordGameFinished(res.Score, res.Pairs, res.Moves, elapsed) })
	}
	if e.best != nil {
		best, bus := e.best, e.bus
		after = append(after, func() {
			candidate := Record{Score: res.Score, Pairs: res.Pairs, Moves: res.Moves}
			replaced, err := best.Submit(candidate)
			if err != nil {
				return
			}
			if replaced {
				bus.Publish(events.TopicGame, ActionBest, roundKey(res.Round), candidate)
			}
		})
	}
	return after
}

// announce returns the bus publications for a transition.
func (e *Engine) announce(ev Event, prev, next State) []func() {
	if e.bus == nil {
		return nil
	}
	bus := e.bus
	key := roundKey(next.Round)
	publish := func(action string, payload any) func() {
		return func() { bus.Publish(events.TopicGame, action, key, payload) }
	}

	var out []func()
	switch ev.(type) {
	case Deal:
		out = append(out, publish(ActionDealt, next.Round))
	case Start:
		if prev.Phase == PhaseIdle && next.Phase == PhaseRunning {
			out = append(out, publish(ActionStarted, next.Round))
		}
	case Reveal:
		if !prev.ResultsVisible && next.ResultsVisible {
			out = append(out, publish(ActionRevealed, next.Round))
		}
	}
	if prev.Phase != PhaseEnded && next.Phase == PhaseEnded {
		out = append(out, publish(ActionFinished, Result{Round: next.Round, Score: next.Score, Pairs: next.Pairs, Moves: next.Moves}))
	}
	return out
}

func (e *Engine) cancelAll() {
	e.execute(StopTicker{})
}

func sameState(a, b State) bool {
	return a.Round == b.Round &&
		a.Phase == b.Phase &&
		a.Moves == b.Moves &&
		a.Pairs == b.Pairs &&
		a.Elapsed == b.Elapsed &&
		a.ResultsVisible == b.ResultsVisible &&
		slices.Equal(a.Pending, b.Pending)
}

func roundKey(round int) string {
	return strconv.Itoa(round)
}
