package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedDeck() []Card {
	var deck []Card
	for i, s := range Symbols {
		deck = append(deck,
			Card{ID: string(rune('a' + 2*i)), Symbol: s},
			Card{ID: string(rune('a' + 2*i + 1)), Symbol: s})
	}
	return deck
}

func running(t *testing.T, r Rules) State {
	t.Helper()
	s, _ := Step(State{}, Deal{Deck: fixedDeck()}, r)
	s, cmds := Step(s, Start{}, r)
	require.Equal(t, PhaseRunning, s.Phase)
	require.Equal(t, []Command{StartTicker{Round: 1}}, cmds)
	return s
}

func TestStepDealResetsEverything(t *testing.T) {
	r := DefaultRules()
	dirty := State{Round: 4, Phase: PhaseEnded, Moves: 9, Pairs: 2, Elapsed: 30, Score: 1, ResultsVisible: true, Pending: []int{1}}
	deck := fixedDeck()
	deck[0].Flipped, deck[1].Matched = true, true

	s, cmds := Step(dirty, Deal{Deck: deck}, r)
	assert.Equal(t, []Command{StopTicker{}}, cmds)
	assert.Equal(t, 5, s.Round)
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Zero(t, s.Moves+s.Pairs+s.Elapsed+s.Score)
	assert.False(t, s.ResultsVisible)
	assert.Empty(t, s.Pending)
	for _, c := range s.Cards {
		assert.False(t, c.Flipped || c.Matched)
	}
	assert.True(t, deck[0].Flipped, "input deck is not modified")
}

func TestStepIgnoresInvalidEvents(t *testing.T) {
	r := DefaultRules()
	idle, _ := Step(State{}, Deal{Deck: fixedDeck()}, r)

	tests := []struct {
		name  string
		state State
		event Event
	}{
		{"tap while idle", idle, Tap{CardID: "a"}},
		{"tick while idle", idle, Tick{Round: 1}},
		{"resolve without pair", running(t, r), Resolve{Round: 1}},
		{"stale tick", running(t, r), Tick{Round: 0}},
		{"unknown card", running(t, r), Tap{CardID: "zz"}},
		{"start twice", running(t, r), Start{}},
		{"reveal while running", running(t, r), Reveal{Round: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, cmds := Step(tt.state, tt.event, r)
			assert.Empty(t, cmds)
			assert.Equal(t, tt.state, next)
		})
	}
}

func TestStepMatchAndMismatch(t *testing.T) {
	r := DefaultRules()

	t.Run("match", func(t *testing.T) {
		s := running(t, r)
		s, _ = Step(s, Tap{CardID: "a"}, r)
		s, cmds := Step(s, Tap{CardID: "b"}, r)
		assert.Equal(t, PhaseResolving, s.Phase)
		assert.Equal(t, []int{0, 1}, s.Pending)
		assert.Equal(t, []Command{Schedule{Delay: r.MatchDelay, Event: Resolve{Round: 1}}}, cmds)

		// no third card while resolving
		blocked, cmds := Step(s, Tap{CardID: "c"}, r)
		assert.Empty(t, cmds)
		assert.Equal(t, s, blocked)

		s, cmds = Step(s, Resolve{Round: 1}, r)
		assert.Empty(t, cmds)
		assert.Equal(t, PhaseRunning, s.Phase)
		assert.Equal(t, 1, s.Pairs)
		assert.Equal(t, 2, s.Moves)
		assert.Empty(t, s.Pending)
		assert.True(t, s.Cards[0].Matched && s.Cards[0].Flipped)
		assert.True(t, s.Cards[1].Matched && s.Cards[1].Flipped)

		again, _ := Step(s, Tap{CardID: "a"}, r)
		assert.Equal(t, 2, again.Moves)
	})

	t.Run("mismatch", func(t *testing.T) {
		s := running(t, r)
		s, _ = Step(s, Tap{CardID: "a"}, r)
		s, cmds := Step(s, Tap{CardID: "c"}, r)
		assert.Equal(t, []Command{Schedule{Delay: r.MismatchDelay, Event: Resolve{Round: 1}}}, cmds)

		s, _ = Step(s, Resolve{Round: 1}, r)
		assert.Equal(t, PhaseRunning, s.Phase)
		assert.Zero(t, s.Pairs)
		assert.Equal(t, 2, s.Moves)
		assert.Empty(t, s.Pending)
		assert.False(t, s.Cards[0].Flipped)
		assert.False(t, s.Cards[2].Flipped)
	})

	t.Run("flipped card is not counted twice", func(t *testing.T) {
		s := running(t, r)
		s, _ = Step(s, Tap{CardID: "a"}, r)
		s, cmds := Step(s, Tap{CardID: "a"}, r)
		assert.Empty(t, cmds)
		assert.Equal(t, 1, s.Moves)
		assert.Equal(t, []int{0}, s.Pending)
	})
}

func TestStepTimeout(t *testing.T) {
	r := DefaultRules()
	s := running(t, r)
	s, _ = Step(s, Tap{CardID: "a"}, r)
	s, _ = Step(s, Tap{CardID: "b"}, r)
	s.Elapsed = r.Budget() - 1

	// the clock keeps running while a pair is resolving
	s, cmds := Step(s, Tick{Round: 1}, r)
	assert.Equal(t, PhaseEnded, s.Phase)
	assert.Empty(t, s.Pending)
	assert.Equal(t, r.Budget(), s.Elapsed)
	require.Len(t, cmds, 3)
	assert.Equal(t, StopTicker{}, cmds[0])
	assert.Equal(t, Finished{Result: Result{Round: 1, Score: 0, Pairs: 0, Moves: 2}}, cmds[1])
	assert.Equal(t, Schedule{Delay: r.RevealDelay, Event: Reveal{Round: 1}}, cmds[2])

	late, cmds := Step(s, Resolve{Round: 1}, r)
	assert.Empty(t, cmds)
	assert.Zero(t, late.Pairs)

	s, _ = Step(s, Reveal{Round: 1}, r)
	assert.True(t, s.ResultsVisible)
}

func TestScoreTiers(t *testing.T) {
	r := DefaultRules()
	tests := []struct {
		pairs, moves, want int
	}{
		{6, 12, 3},
		{6, 15, 3},
		{6, 16, 2},
		{6, 40, 2},
		{5, 10, 1},
		{3, 30, 1},
		{2, 4, 0},
		{0, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Score(tt.pairs, tt.moves), "pairs=%d moves=%d", tt.pairs, tt.moves)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "0:00", FormatClock(0))
	assert.Equal(t, "0:09", FormatClock(9))
	assert.Equal(t, "1:00", FormatClock(60))
	assert.Equal(t, "2:05", FormatClock(125))
}

func TestNewDeck(t *testing.T) {
	deck := NewDeck(nil)
	require.Len(t, deck, 12)

	counts := make(map[Symbol]int)
	ids := make(map[string]bool)
	for _, c := range deck {
		counts[c.Symbol]++
		ids[c.ID] = true
		assert.False(t, c.Flipped || c.Matched)
	}
	assert.Len(t, ids, 12)
	require.Len(t, counts, len(Symbols))
	for _, s := range Symbols {
		assert.Equal(t, 2, counts[s], string(s))
	}
}

func TestPhaseText(t *testing.T) {
	for _, p := range []Phase{PhaseIdle, PhaseRunning, PhaseResolving, PhaseEnded} {
		text, err := p.MarshalText()
		require.NoError(t, err)
		var got Phase
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, p, got)
	}
	var p Phase
	assert.Error(t, p.UnmarshalText([]byte("paused")))
}
