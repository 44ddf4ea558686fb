package poker

import (
	"math/rand/v2"
)

// Deck is a stack of cards dealt from the top.
type Deck struct {
	cards []Card
	rng   *rand.Rand // nil falls back to the global source
}

// NewDeck creates a full 52-card deck shuffled with rng.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	d.Reset()
	return d
}

// NewStackedDeck creates a deck that deals cards in exactly the given order.
// It is used to script hands in tests and replays.
func NewStackedDeck(cards []Card) *Deck {
	stacked := make([]Card, len(cards))
	copy(stacked, cards)
	return &Deck{cards: stacked}
}

// FullDeck returns the 52 cards in suit-major, rank-ascending order.
func FullDeck() []Card {
	cards := make([]Card, 0, 52)
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

// Shuffle shuffles the remaining cards using Fisher-Yates.
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes n cards from the top of the deck. It returns nil when fewer
// than n cards remain.
func (d *Deck) Deal(n int) []Card {
	if n < 0 || n > len(d.cards) {
		return nil
	}
	dealt := make([]Card, n)
	copy(dealt, d.cards[:n])
	d.cards = d.cards[n:]
	return dealt
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Reset restores all 52 cards and reshuffles.
func (d *Deck) Reset() {
	d.cards = FullDeck()
	d.Shuffle()
}
