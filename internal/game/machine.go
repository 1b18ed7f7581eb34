package game

import (
	"fmt"
	"slices"
	"time"
)

// Phase is the lifecycle position of a game
type Phase int

const (
	PhaseIdle      Phase = iota // deck dealt, clock stopped
	PhaseRunning                // clock running, taps accepted
	PhaseResolving              // two cards up, waiting for the outcome
	PhaseEnded                  // out of time or all pairs found
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseResolving:
		return "resolving"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MarshalText renders the phase name in JSON
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a phase name
func (p *Phase) UnmarshalText(text []byte) error {
	for _, candidate := range []Phase{PhaseIdle, PhaseRunning, PhaseResolving, PhaseEnded} {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown game phase %q", text)
}

// State is a complete game snapshot. Round increases on every deal and
// tags deferred events so stale ones can be dropped.
type State struct {
	Round          int    `json:"round"`
	Phase          Phase  `json:"phase"`
	Cards          []Card `json:"cards"`
	Pending        []int  `json:"pending"` // indices into Cards, in flip order
	Moves          int    `json:"moves"`
	Pairs          int    `json:"pairs"`
	Elapsed        int    `json:"elapsed"` // ticks
	Score          int    `json:"score"`
	ResultsVisible bool   `json:"results_visible"`
}

// Clone returns a deep copy
func (s State) Clone() State {
	s.Cards = slices.Clone(s.Cards)
	s.Pending = slices.Clone(s.Pending)
	return s
}

// Result summarises a finished game
type Result struct {
	Round int
	Score int
	Pairs int
	Moves int
}

// Event is an input to Step
type Event interface{ isEvent() }

// Deal starts a new round with the given deck
type Deal struct{ Deck []Card }

// Start starts the clock
type Start struct{}

// Tap flips the card with the given ID
type Tap struct{ CardID string }

// Tick is one clock tick of round Round
type Tick struct{ Round int }

// Resolve settles the pending pair of round Round
type Resolve struct{ Round int }

// Reveal shows the results of round Round
type Reveal struct{ Round int }

func (Deal) isEvent()    {}
func (Start) isEvent()   {}
func (Tap) isEvent()     {}
func (Tick) isEvent()    {}
func (Resolve) isEvent() {}
func (Reveal) isEvent()  {}

// Command is a side effect requested by Step
type Command interface{ isCommand() }

// StartTicker asks for a Tick{Round} every Rules.Tick
type StartTicker struct{ Round int }

// StopTicker cancels the running ticker
type StopTicker struct{}

// Schedule asks for Event to be fed back after Delay
type Schedule struct {
	Delay time.Duration
	Event Event
}

// Finished reports the end of a round
type Finished struct{ Result Result }

func (StartTicker) isCommand() {}
func (StopTicker) isCommand()  {}
func (Schedule) isCommand()    {}
func (Finished) isCommand()    {}

// Step applies e to s. It never mutates s; the returned state shares no
// slices with it. Events that are not valid in the current phase, or that
// belong to an earlier round, leave the state unchanged and yield no
// commands.
func Step(s State, e Event, r Rules) (State, []Command) {
	switch ev := e.(type) {
	case Deal:
		return deal(s, ev), []Command{StopTicker{}}

	case Start:
		if s.Phase != PhaseIdle {
			return s, nil
		}
		next := s.Clone()
		next.Phase = PhaseRunning
		next.Elapsed = 0
		return next, []Command{StartTicker{Round: next.Round}}

	case Tap:
		return tap(s, ev, r)

	case Tick:
		if ev.Round != s.Round || (s.Phase != PhaseRunning && s.Phase != PhaseResolving) {
			return s, nil
		}
		next := s.Clone()
		next.Elapsed++
		if next.Elapsed >= r.Budget() {
			return end(next, r)
		}
		return next, nil

	case Resolve:
		if ev.Round != s.Round || s.Phase != PhaseResolving || len(s.Pending) != 2 {
			return s, nil
		}
		return resolve(s, r)

	case Reveal:
		if ev.Round != s.Round || s.Phase != PhaseEnded || s.ResultsVisible {
			return s, nil
		}
		next := s.Clone()
		next.ResultsVisible = true
		return next, nil
	}
	return s, nil
}

func deal(s State, ev Deal) State {
	cards := slices.Clone(ev.Deck)
	for i := range cards {
		cards[i].Flipped = false
		cards[i].Matched = false
	}
	return State{
		Round: s.Round + 1,
		Phase: PhaseIdle,
		Cards: cards,
	}
}

func tap(s State, ev Tap, r Rules) (State, []Command) {
	if s.Phase != PhaseRunning {
		return s, nil
	}
	i := slices.IndexFunc(s.Cards, func(c Card) bool { return c.ID == ev.CardID })
	if i < 0 || s.Cards[i].Flipped || s.Cards[i].Matched {
		return s, nil
	}

	next := s.Clone()
	next.Moves++
	next.Cards[i].Flipped = true
	next.Pending = append(next.Pending, i)
	if len(next.Pending) < 2 {
		return next, nil
	}

	next.Phase = PhaseResolving
	delay := r.MismatchDelay
	if next.Cards[next.Pending[0]].Symbol == next.Cards[next.Pending[1]].Symbol {
		delay = r.MatchDelay
	}
	return next, []Command{Schedule{Delay: delay, Event: Resolve{Round: next.Round}}}
}

func resolve(s State, r Rules) (State, []Command) {
	next := s.Clone()
	a, b := next.Pending[0], next.Pending[1]
	matched := next.Cards[a].Symbol == next.Cards[b].Symbol
	if matched {
		next.Cards[a].Matched = true
		next.Cards[b].Matched = true
		next.Pairs++
	} else {
		next.Cards[a].Flipped = false
		next.Cards[b].Flipped = false
	}
	next.Pending = nil
	next.Phase = PhaseRunning

	if matched && next.Pairs >= PairCount {
		return end(next, r)
	}
	return next, nil
}

// end stops the clock and scores the round. Pending flips are abandoned.
func end(s State, r Rules) (State, []Command) {
	s.Phase = PhaseEnded
	s.Pending = nil
	s.Score = r.Score(s.Pairs, s.Moves)
	return s, []Command{
		StopTicker{},
		Finished{Result: Result{Round: s.Round, Score: s.Score, Pairs: s.Pairs, Moves: s.Moves}},
		Schedule{Delay: r.RevealDelay, Event: Reveal{Round: s.Round}},
	}
}
