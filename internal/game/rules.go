package game

import (
	"fmt"
	"time"
)

// Rules holds the timings and thresholds of a game
type Rules struct {
	TimeLimit     time.Duration
	Tick          time.Duration
	MatchDelay    time.Duration
	MismatchDelay time.Duration
	RevealDelay   time.Duration
	// PerfectMoves is the most moves that still score three when every
	// pair is found
	PerfectMoves int
}

// DefaultRules returns the standard game: 60 one-second ticks, half a
// second to show a match, a second to show a mismatch.
func DefaultRules() Rules {
	return Rules{
		TimeLimit:     60 * time.Second,
		Tick:          time.Second,
		MatchDelay:    500 * time.Millisecond,
		MismatchDelay: time.Second,
		RevealDelay:   2 * time.Second,
		PerfectMoves:  15,
	}
}

// Budget returns the number of ticks a game lasts
func (r Rules) Budget() int {
	if r.Tick <= 0 {
		return 0
	}
	return int(r.TimeLimit / r.Tick)
}

// Score returns the tier for a finished game: 3 for every pair within
// PerfectMoves, 2 for every pair, 1 for at least half the pairs, else 0.
func (r Rules) Score(pairs, moves int) int {
	switch {
	case pairs >= PairCount && moves <= r.PerfectMoves:
		return 3
	case pairs >= PairCount:
		return 2
	case pairs >= PairCount/2:
		return 1
	default:
		return 0
	}
}

// FormatClock renders whole seconds as m:ss
func FormatClock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
