// Package game implements the memory matching game: a deck of six egg pairs,
// a one-minute budget, and a persisted best-score record.
package game

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// Symbol is a card face. Each appears exactly twice per deck.
type Symbol string

// Symbols lists the card faces in deck-building order
var Symbols = []Symbol{"eggCard1", "eggCard2", "eggCard3", "eggCard4", "eggCard5", "eggCard6"}

// PairCount is the number of pairs in a deck
var PairCount = len(Symbols)

// Card is one card on the board
type Card struct {
	ID      string `json:"id"`
	Symbol  Symbol `json:"symbol"`
	Flipped bool   `json:"flipped"`
	Matched bool   `json:"matched"`
}

// NewDeck returns two fresh cards per symbol, shuffled with r. A nil r
// uses the global source.
func NewDeck(r *rand.Rand) []Card {
	deck := make([]Card, 0, 2*len(Symbols))
	for _, s := range Symbols {
		deck = append(deck,
			Card{ID: uuid.NewString(), Symbol: s},
			Card{ID: uuid.NewString(), Symbol: s})
	}
	swap := func(i, j int) { deck[i], deck[j] = deck[j], deck[i] }
	if r == nil {
		rand.Shuffle(len(deck), swap)
	} else {
		r.Shuffle(len(deck), swap)
	}
	return deck
}
