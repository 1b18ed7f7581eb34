// Package app wires the stores, preferences and game together for the CLI
// and HTTP front ends.
package app

import (
	"math/rand/v2"

	"github.com/futurework-1/NestEgg-Journal/internal/catalog"
	"github.com/futurework-1/NestEgg-Journal/internal/conf"
	"github.com/futurework-1/NestEgg-Journal/internal/datastore"
	"github.com/futurework-1/NestEgg-Journal/internal/errors"
	"github.com/futurework-1/NestEgg-Journal/internal/events"
	"github.com/futurework-1/NestEgg-Journal/internal/game"
	"github.com/futurework-1/NestEgg-Journal/internal/journal"
	"github.com/futurework-1/NestEgg-Journal/internal/logger"
	"github.com/futurework-1/NestEgg-Journal/internal/notice"
	"github.com/futurework-1/NestEgg-Journal/internal/observability"
	"github.com/futurework-1/NestEgg-Journal/internal/schedule"
	"github.com/futurework-1/NestEgg-Journal/internal/units"
)

// App is a loaded NestEgg Journal instance
type App struct {
	Settings *conf.Settings
	Store    datastore.Interface
	Bus      *events.EventBus
	Catalog  *catalog.Store
	Journal  *journal.Store
	Units    *units.Preferences
	Banner   *notice.Banner
	Best     *game.BestStore
	Metrics  *observability.Metrics

	sched   schedule.Scheduler
	rng     *rand.Rand
	rootLog logger.Logger
	logger  logger.Logger
}

type options struct {
	store   datastore.Interface
	sched   schedule.Scheduler
	rng     *rand.Rand
	metrics *observability.Metrics
}

// Option configures New
type Option func(*options)

// WithStore uses an already open store instead of the configured backend.
// App.Close still closes it.
func WithStore(store datastore.Interface) Option {
	return func(o *options) { o.store = store }
}

// WithScheduler drives game timers and notices from s
func WithScheduler(s schedule.Scheduler) Option {
	return func(o *options) { o.sched = s }
}

// WithRand sets the shuffle source for new games
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithMetrics records game and datastore metrics into m
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// New opens the datastore and loads the catalog, the journal and the unit
// preferences. Dataset and blob failures are logged and leave the affected
// collection empty; only a datastore that cannot be opened fails New.
func New(settings *conf.Settings, log logger.Logger, opts ...Option) (*App, error) {
	if settings == nil {
		var err error
		if settings, err = conf.Defaults(); err != nil {
			return nil, err
		}
	}
	if log == nil {
		log = logger.Discard()
	}
	o := options{sched: schedule.Real{}}
	for _, opt := range opts {
		opt(&o)
	}

	store := o.store
	if store == nil {
		var err error
		store, err = datastore.New(&settings.Storage, log)
		if err != nil {
			return nil, err
		}
	}
	if o.metrics != nil {
		store = datastore.NewInstrumentedStore(store, o.metrics.Datastore)
	}

	a := &App{
		Settings: settings,
		Store:    store,
		Bus:      events.NewEventBus(log),
		Metrics:  o.metrics,
		sched:    o.sched,
		rng:      o.rng,
		rootLog:  log,
		logger:   log.Module("app"),
	}

	a.Catalog = catalog.NewStore(store, log, a.Bus)
	_ = a.Catalog.Load(settings.Data.CatalogPath)

	a.Journal = journal.NewStore(store, log, a.Bus)
	_ = a.Journal.Load(settings.Data.ObservationsPath)

	a.Units = units.NewPreferences(store, log, a.Bus)
	a.Units.Load()

	a.Banner = notice.NewBanner(o.sched, settings.Notice.Duration, a.Bus)
	a.Best = game.NewBestStore(store, log)

	a.logger.Info("nestegg journal ready",
		logger.String("storage", settings.Storage.Type),
		logger.Int("birds", a.Catalog.Len()),
		logger.Int("observations", a.Journal.Len()))
	return a, nil
}

// Rules returns the game rules from the settings
func (a *App) Rules() game.Rules {
	g := a.Settings.Game
	r := game.DefaultRules()
	r.TimeLimit = g.TimeLimit
	r.MatchDelay = g.MatchDelay
	r.MismatchDelay = g.MismatchDelay
	r.RevealDelay = g.RevealDelay
	r.PerfectMoves = g.PerfectMoves
	return r
}

// NewGame returns an idle game using the configured rules, clock and best
// record. The caller owns the engine and must Close it.
func (a *App) NewGame(opts ...game.Option) *game.Engine {
	base := []game.Option{
		game.WithRules(a.Rules()),
		game.WithScheduler(a.sched),
		game.WithEventBus(a.Bus),
		game.WithLogger(a.rootLog),
	}
	if a.rng != nil {
		base = append(base, game.WithRand(a.rng))
	}
	if a.Metrics != nil {
		base = append(base, game.WithRecorder(a.Metrics.Game))
	}
	return game.NewEngine(a.Best, append(base, opts...)...)
}

// ClearHistory removes every user observation and journal mark, then shows
// the confirmation notice.
func (a *App) ClearHistory() error {
	if err := a.Journal.ClearUserHistory(); err != nil {
		return err
	}
	a.Banner.Show(notice.HistoryCleared)
	return nil
}

// ResetProgress clears the studied and favourite sets, then shows the
// confirmation notice.
func (a *App) ResetProgress() error {
	if err := a.Catalog.ClearAllProgress(); err != nil {
		return err
	}
	a.Banner.Show(notice.ProgressReset)
	return nil
}

// Close hides the notice and closes the datastore
func (a *App) Close() error {
	a.Banner.Close()
	if err := a.Store.Close(); err != nil {
		return errors.New(err).
			Component("app").
			Category(errors.CategoryDatabase).
			Context("operation", "close").
			Build()
	}
	a.logger.Debug("datastore closed")
	return nil
}
