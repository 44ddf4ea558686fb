package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-engine/poker"
)

type seatSpec struct {
	id    string
	stack int
}

func newRoom(t *testing.T, sb, bb int, seats ...seatSpec) *Room {
	t.Helper()
	room := NewRoom("test", 9, sb, bb)
	for _, s := range seats {
		_, err := room.AddSeat(s.id, s.id, s.stack, false)
		require.NoError(t, err)
	}
	return room
}

// scriptedDeck builds a deck source that deals the given hole cards and board.
// Hole cards are laid out in dealing order (one card per seat, twice, starting
// left of the dealer) and the rest of the deck follows the board.
func scriptedDeck(room *Room, holes map[string]string, board string) func() *poker.Deck {
	return func() *poker.Deck {
		n := len(room.Seats)
		var order []*Seat
		for i := 1; i <= n; i++ {
			s := room.Seats[(room.DealerPos+i)%n]
			if s.Stack > 0 {
				order = append(order, s)
			}
		}

		var cards []poker.Card
		for round := 0; round < 2; round++ {
			for _, s := range order {
				cards = append(cards, poker.MustParseCards(holes[s.ID])[round])
			}
		}
		cards = append(cards, poker.MustParseCards(board)...)

		used := make(map[poker.Card]bool)
		for _, c := range cards {
			used[c] = true
		}
		for _, c := range poker.FullDeck() {
			if !used[c] {
				cards = append(cards, c)
			}
		}
		return poker.NewStackedDeck(cards)
	}
}

func mustApply(t *testing.T, tbl *Table, id string, action Action, amount int) {
	t.Helper()
	require.Equal(t, id, tbl.ToAct, "expected %s to act", id)
	require.NoError(t, tbl.Apply(id, action, amount))
	require.NoError(t, tbl.Validate())
}

func stacks(room *Room) map[string]int {
	out := make(map[string]int)
	for _, s := range room.Seats {
		out[s.ID] = s.Stack
	}
	return out
}
