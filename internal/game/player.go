package game

import "github.com/lox/holdem-engine/poker"

// Seat is a player sitting at the table.
type Seat struct {
	ID        string
	Name      string
	Stack     int
	SeatIndex int
	IsBot     bool

	// Hand state, reset by StartHand.
	Folded     bool
	IsAllIn    bool
	Bet        int // chips committed on the current street
	Hand       []poker.Card
	HasActed   bool
	SittingOut bool // dealt out of the current hand for lack of chips
}

// InHand reports whether the seat can still win the pot.
func (s *Seat) InHand() bool {
	return !s.Folded && !s.SittingOut
}

// CanAct reports whether the seat may still take betting actions this hand.
func (s *Seat) CanAct() bool {
	return s.InHand() && !s.IsAllIn
}

func (s *Seat) resetForHand() {
	s.Folded = false
	s.IsAllIn = false
	s.Bet = 0
	s.Hand = nil
	s.HasActed = false
	s.SittingOut = s.Stack <= 0
	if s.SittingOut {
		s.Folded = true
	}
}
