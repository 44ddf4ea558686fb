package game

import (
	"github.com/lox/holdem-engine/poker"
)

// Payout describes how a finished hand's pot was distributed.
//
// The pot is split evenly with integer division. The Remainder odd chips go to
// RemainderTo, the first winner clockwise from the dealer, so every chip is
// accounted for: AmountEach*len(WinnerIDs) + Remainder == Pot.
type Payout struct {
	HandID      string   `json:"handId"`
	HandNumber  int      `json:"handNumber"`
	WinnerIDs   []string `json:"winnerIds"`
	AmountEach  int      `json:"amountEach"`
	Pot         int      `json:"pot"`
	Remainder   int      `json:"remainder,omitempty"`
	RemainderTo string   `json:"remainderTo,omitempty"`
}

// Total returns the chips credited to playerID.
func (p Payout) Total(playerID string) int {
	total := 0
	for _, id := range p.WinnerIDs {
		if id == playerID {
			total += p.AmountEach
		}
	}
	if p.RemainderTo == playerID {
		total += p.Remainder
	}
	return total
}

// ShownHand is a hand revealed at showdown.
type ShownHand struct {
	PlayerID    string         `json:"playerId"`
	Cards       []poker.Card   `json:"cards"`
	Rank        poker.HandRank `json:"rank"`
	Description string         `json:"description"`
}

// Result summarises a finished hand.
type Result struct {
	Payout   Payout      `json:"payout"`
	Showdown bool        `json:"showdown"`
	Hands    []ShownHand `json:"hands,omitempty"`
}

// showdown ranks every live hand and pays the best.
func (t *Table) showdown() {
	t.Street = Showdown
	t.ToAct = ""

	var (
		winners []*Seat
		best    = poker.InvalidRank
		shown   []ShownHand
	)
	for _, s := range t.live() {
		cards := make([]poker.Card, 0, 7)
		cards = append(cards, s.Hand...)
		cards = append(cards, t.Community...)

		rank, err := poker.Evaluate(cards)
		if err != nil {
			t.EvalFailures++
			t.logger.Error("hand evaluation failed",
				"room", t.Room.ID, "hand", t.Room.HandNumber, "player", s.ID,
				"cards", poker.FormatCards(cards), "err", err)
		}

		shown = append(shown, ShownHand{
			PlayerID:    s.ID,
			Cards:       append([]poker.Card(nil), s.Hand...),
			Rank:        rank,
			Description: rank.String(),
		})

		switch c := poker.CompareRanks(rank, best); {
		case c > 0 || winners == nil:
			best = rank
			winners = []*Seat{s}
		case c == 0:
			winners = append(winners, s)
		}
	}

	t.award(winners, shown)
}

// finishFoldOut pays the last live seat without a showdown.
func (t *Table) finishFoldOut() {
	t.Street = Ended
	t.ToAct = ""
	t.award(t.live(), nil)
}

// award splits the pot between winners and ends the hand.
func (t *Table) award(winners []*Seat, shown []ShownHand) {
	payout := SplitPot(t.Pot, t.orderFromDealer(winners))
	payout.HandID = t.HandID
	payout.HandNumber = t.Room.HandNumber
	for _, s := range winners {
		s.Stack += payout.Total(s.ID)
	}

	t.Pot = 0
	t.CurrentBet = 0
	for _, s := range t.Room.Seats {
		s.Bet = 0
	}
	t.Result = &Result{Payout: payout, Showdown: shown != nil, Hands: shown}
	t.inHand = false
	if t.Room.FundedSeats() < 2 {
		t.Room.Status = StatusWaiting
	}
}

// orderFromDealer returns seats sorted clockwise starting left of the dealer.
func (t *Table) orderFromDealer(seats []*Seat) []*Seat {
	n := len(t.Room.Seats)
	ordered := make([]*Seat, 0, len(seats))
	for i := 1; i <= n; i++ {
		idx := (t.Room.DealerPos + i) % n
		for _, s := range seats {
			if s.SeatIndex == idx {
				ordered = append(ordered, s)
			}
		}
	}
	return ordered
}

// SplitPot divides pot evenly among winners, in the order given. Odd chips
// go to the first winner.
func SplitPot(pot int, winners []*Seat) Payout {
	p := Payout{Pot: pot}
	if len(winners) == 0 {
		return p
	}
	for _, s := range winners {
		p.WinnerIDs = append(p.WinnerIDs, s.ID)
	}
	p.AmountEach = pot / len(winners)
	p.Remainder = pot % len(winners)
	if p.Remainder > 0 {
		p.RemainderTo = winners[0].ID
	}
	return p
}
