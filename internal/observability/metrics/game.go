package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GameMetrics contains Prometheus metrics for memory game rounds. It
// satisfies game.Recorder.
type GameMetrics struct {
	registry *prometheus.Registry

	gamesStartedTotal  prometheus.Counter
	gamesFinishedTotal *prometheus.CounterVec
	movesPerGame       prometheus.Histogram
	pairsPerGame       prometheus.Histogram
	gameDuration       prometheus.Histogram

	collectors []prometheus.Collector
}

// NewGameMetrics creates and registers new game metrics
func NewGameMetrics(registry *prometheus.Registry) (*GameMetrics, error) {
	m := &GameMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *GameMetrics) initMetrics() {
	m.gamesStartedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "game_rounds_started_total",
			Help: "Total number of memory game rounds started",
		},
	)

	m.gamesFinishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_rounds_finished_total",
			Help: "Total number of memory game rounds finished, by score tier",
		},
		[]string{"score"}, // score: 0, 1, 2, 3
	)

	m.movesPerGame = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "game_moves",
			Help:    "Moves taken per finished round",
			Buckets: prometheus.LinearBuckets(12, 4, 8), // 12 to 40
		},
	)

	m.pairsPerGame = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "game_pairs_matched",
			Help:    "Pairs matched per finished round",
			Buckets: prometheus.LinearBuckets(0, 1, 7),
		},
	)

	m.gameDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "game_round_duration_seconds",
			Help:    "Wall time from start to end of a round",
			Buckets: prometheus.LinearBuckets(5, 5, 12), // 5s to 60s
		},
	)

	m.collectors = []prometheus.Collector{
		m.gamesStartedTotal,
		m.gamesFinishedTotal,
		m.movesPerGame,
		m.pairsPerGame,
		m.gameDuration,
	}
}

// Describe implements the Collector interface
func (m *GameMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *GameMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

func (m *GameMetrics) RecordGameStarted() {
	m.gamesStartedTotal.Inc()
}

func (m *GameMetrics) RecordGameFinished(score, pairs, moves int, elapsed time.Duration) {
	m.gamesFinishedTotal.WithLabelValues(strconv.Itoa(score)).Inc()
	m.movesPerGame.Observe(float64(moves))
	m.pairsPerGame.Observe(float64(pairs))
	m.gameDuration.Observe(elapsed.Seconds())
}
