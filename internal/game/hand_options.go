package game

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/poker"
)

// TableOption configures a Table during creation.
type TableOption func(*Table)

// WithRNG sets the random source used to shuffle each hand's deck.
func WithRNG(rng *rand.Rand) TableOption {
	return func(t *Table) {
		t.rng = rng
	}
}

// WithDeckSource overrides deck creation. The function is called once per
// hand; tests use it with poker.NewStackedDeck to script the cards.
func WithDeckSource(fn func() *poker.Deck) TableOption {
	return func(t *Table) {
		t.newDeck = fn
	}
}

// WithLogger sets the logger used for data invariant violations.
func WithLogger(logger *log.Logger) TableOption {
	return func(t *Table) {
		t.logger = logger
	}
}

// WithHandIDs overrides the generator for hand ids.
func WithHandIDs(fn func() string) TableOption {
	return func(t *Table) {
		t.newHandID = fn
	}
}
