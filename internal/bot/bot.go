// Package bot decides actions for computer-controlled seats.
package bot

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/poker"
)

// Strategy chooses an action for a seat. Implementations must be pure
// functions of the situation and rng so that seeded tables replay exactly.
type Strategy interface {
	Decide(s Situation, rng *rand.Rand) Decision
}

// Decision is a strategy's chosen action. Amount is the target street
// contribution for bet and raise and ignored otherwise.
type Decision struct {
	Action    game.Action
	Amount    int
	Reasoning string
}

func (d Decision) String() string {
	if d.Action == game.Bet || d.Action == game.Raise {
		return fmt.Sprintf("%s %d", d.Action, d.Amount)
	}
	return d.Action.String()
}

// Position is a coarse table position.
type Position int

const (
	Early Position = iota
	Middle
	Late
)

func (p Position) String() string {
	return [...]string{"early", "middle", "late"}[p]
}

// Situation is everything a strategy may look at.
type Situation struct {
	Hole       []poker.Card
	Community  []poker.Card
	Street     game.Street
	Pot        int
	CurrentBet int
	MinRaise   int
	BigBlind   int
	Bet        int // own contribution this street
	Stack      int
	SeatIndex  int
	DealerPos  int
	Seats      int
}

// SituationFor describes the table from seat's point of view.
func SituationFor(t *game.Table, seat *game.Seat) Situation {
	return Situation{
		Hole:       append([]poker.Card(nil), seat.Hand...),
		Community:  append([]poker.Card(nil), t.Community...),
		Street:     t.Street,
		Pot:        t.Pot,
		CurrentBet: t.CurrentBet,
		MinRaise:   t.MinRaise,
		BigBlind:   t.Room.BigBlind,
		Bet:        seat.Bet,
		Stack:      seat.Stack,
		SeatIndex:  seat.SeatIndex,
		DealerPos:  t.Room.DealerPos,
		Seats:      len(t.Room.Seats),
	}
}

// ToCall returns the chips needed to match the current bet.
func (s Situation) ToCall() int {
	return max(s.CurrentBet-s.Bet, 0)
}

// PotOdds returns toCall / (pot + toCall), or 0 when there is nothing to call.
func (s Situation) PotOdds() float64 {
	toCall := s.ToCall()
	if toCall == 0 {
		return 0
	}
	return float64(toCall) / float64(s.Pot+toCall)
}

// Position buckets the seat by its distance from the dealer. The dealer
// itself is late.
func (s Situation) Position() Position {
	if s.Seats <= 0 {
		return Early
	}
	d := ((s.SeatIndex-s.DealerPos)%s.Seats + s.Seats) % s.Seats
	switch {
	case d == 0:
		return Late
	case d <= s.Seats/3:
		return Early
	case d <= 2*s.Seats/3:
		return Middle
	default:
		return Late
	}
}

// FallbackAction is the action taken for a seat that did not act in time.
func FallbackAction(s Situation) game.Action {
	if s.ToCall() > 0 {
		return game.Fold
	}
	return game.Check
}

// ByName returns a strategy by its configuration name.
func ByName(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "", "heuristic":
		return Heuristic{}, nil
	case "passive", "call":
		return Passive{}, nil
	case "fold":
		return Folder{}, nil
	case "random", "rand":
		return Random{}, nil
	default:
		return nil, fmt.Errorf("unknown bot strategy %q", name)
	}
}
