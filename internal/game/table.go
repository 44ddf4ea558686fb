package game

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/internal/handid"
	"github.com/lox/holdem-engine/poker"
)

// Table runs hands for one Room.
type Table struct {
	Room   *Room
	HandID string // unique id of the current or last hand

	Community  []poker.Card
	Pot        int
	CurrentBet int
	MinRaise   int
	Street     Street
	ToAct      string // player id, empty when nobody is to act
	CurrentPos int
	LastAction *ActionRecord
	Result     *Result // set when the hand is over

	// EvalFailures counts showdown hands the evaluator rejected.
	EvalFailures int

	deck       *poker.Deck
	newDeck    func() *poker.Deck
	newHandID  func() string
	rng        *rand.Rand
	logger     *log.Logger
	inHand     bool
	handChips  int
	smallBlind int // seat indexes of this hand's blinds
	bigBlind   int
}

// NewTable creates a table for room. Without WithRNG the deck is shuffled
// from the global source.
func NewTable(room *Room, opts ...TableOption) *Table {
	t := &Table{
		Room:       room,
		Street:     Ended,
		CurrentPos: -1,
		smallBlind: -1,
		bigBlind:   -1,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = log.New(io.Discard)
	}
	if t.newHandID == nil {
		t.newHandID = handid.New
	}
	if t.newDeck == nil {
		t.newDeck = func() *poker.Deck { return poker.NewDeck(t.rng) }
	}
	return t
}

// InHand reports whether a hand is being played.
func (t *Table) InHand() bool {
	return t.inHand
}

// ToActSeat returns the seat whose action is required, or nil.
func (t *Table) ToActSeat() *Seat {
	if t.ToAct == "" {
		return nil
	}
	return t.Room.Seat(t.ToAct)
}

// ToCall returns the chips seat must add to match the current bet.
func (t *Table) ToCall(seat *Seat) int {
	if seat == nil || seat.Bet >= t.CurrentBet {
		return 0
	}
	return t.CurrentBet - seat.Bet
}

// BlindSeats returns the seat indexes that posted the small and big blind
// in the current or last hand.
func (t *Table) BlindSeats() (small, big int) {
	return t.smallBlind, t.bigBlind
}

// Leave removes a player between hands.
func (t *Table) Leave(playerID string) error {
	if t.inHand {
		return ErrHandInProgress
	}
	if err := t.Room.RemoveSeat(playerID); err != nil {
		return err
	}
	t.handChips = t.Room.TotalStacks()
	return nil
}

// Validate checks the table invariants and returns every violation found.
func (t *Table) Validate() error {
	var errs []error

	if t.inHand || t.Result != nil {
		if got := t.Room.TotalStacks() + t.Pot; got != t.handChips {
			errs = append(errs, fmt.Errorf("chip conservation: stacks+pot=%d, want %d", got, t.handChips))
		}
	}

	maxBet := 0
	for _, s := range t.Room.Seats {
		if s.Stack < 0 {
			errs = append(errs, fmt.Errorf("seat %s has negative stack %d", s.ID, s.Stack))
		}
		if s.InHand() && s.Bet > maxBet {
			maxBet = s.Bet
		}
	}
	if t.inHand && maxBet != t.CurrentBet {
		errs = append(errs, fmt.Errorf("current bet %d, largest live bet %d", t.CurrentBet, maxBet))
	}

	if t.Street != Ended {
		if want := t.Street.communityCards(); len(t.Community) != want {
			errs = append(errs, fmt.Errorf("%s with %d community cards, want %d", t.Street, len(t.Community), want))
		}
	}

	if t.ToAct != "" {
		seat := t.Room.Seat(t.ToAct)
		switch {
		case seat == nil:
			errs = append(errs, fmt.Errorf("to act %q is not seated", t.ToAct))
		case !seat.CanAct():
			errs = append(errs, fmt.Errorf("to act %q cannot act", t.ToAct))
		case seat.SeatIndex != t.CurrentPos:
			errs = append(errs, fmt.Errorf("to act %q at seat %d, current position %d", t.ToAct, seat.SeatIndex, t.CurrentPos))
		}
	} else if t.inHand && len(t.actionable()) > 0 {
		errs = append(errs, errors.New("nobody to act while seats can still act"))
	}

	return errors.Join(errs...)
}

// actionable returns seats that can still bet, in seat order.
func (t *Table) actionable() []*Seat {
	var seats []*Seat
	for _, s := range t.Room.Seats {
		if s.CanAct() {
			seats = append(seats, s)
		}
	}
	return seats
}

// live returns seats still contesting the pot.
func (t *Table) live() []*Seat {
	var seats []*Seat
	for _, s := range t.Room.Seats {
		if s.InHand() {
			seats = append(seats, s)
		}
	}
	return seats
}

// nextSeat returns the first seat after pos, in clockwise order, for which
// match returns true, or -1.
func (t *Table) nextSeat(pos int, match func(*Seat) bool) int {
	n := len(t.Room.Seats)
	for i := 1; i <= n; i++ {
		idx := ((pos+i)%n + n) % n
		if match(t.Room.Seats[idx]) {
			return idx
		}
	}
	return -1
}
