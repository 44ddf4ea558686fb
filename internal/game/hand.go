package game

import (
	"fmt"

	"github.com/lox/holdem-engine/poker"
)

// StartHand deals a new hand: it rotates the button, posts blinds, deals
// hole cards and sets the first seat to act. With fewer than two funded
// seats the room goes back to waiting and ErrNotEnoughPlayers is returned.
func (t *Table) StartHand() error {
	if t.inHand {
		return ErrHandInProgress
	}
	r := t.Room
	if r.FundedSeats() < 2 {
		r.Status = StatusWaiting
		return ErrNotEnoughPlayers
	}

	r.HandNumber++
	t.HandID = t.newHandID()
	r.Status = StatusRunning
	r.DealerPos = (r.DealerPos + 1) % len(r.Seats)

	t.deck = t.newDeck()
	t.Community = nil
	t.Pot = 0
	t.CurrentBet = 0
	t.MinRaise = r.BigBlind
	t.Street = Preflop
	t.ToAct = ""
	t.LastAction = nil
	t.Result = nil
	t.inHand = true
	t.handChips = r.TotalStacks()

	for _, s := range r.Seats {
		s.resetForHand()
	}
	if err := t.dealHoleCards(); err != nil {
		return err
	}

	funded := func(s *Seat) bool { return !s.SittingOut }
	t.smallBlind = t.nextSeat(r.DealerPos, funded)
	t.bigBlind = t.nextSeat(t.smallBlind, funded)
	t.postBlind(r.Seats[t.smallBlind], r.SmallBlind)
	t.postBlind(r.Seats[t.bigBlind], r.BigBlind)

	t.CurrentPos = t.bigBlind
	t.settleTurn()
	return nil
}

func (t *Table) dealHoleCards() error {
	r := t.Room
	for round := 0; round < 2; round++ {
		for i := 1; i <= len(r.Seats); i++ {
			s := r.Seats[(r.DealerPos+i)%len(r.Seats)]
			if s.SittingOut {
				continue
			}
			cards := t.deck.Deal(1)
			if cards == nil {
				t.inHand = false
				return fmt.Errorf("deck exhausted dealing hole cards")
			}
			s.Hand = append(s.Hand, cards[0])
		}
	}
	return nil
}

func (t *Table) postBlind(s *Seat, amount int) {
	t.commit(s, min(amount, s.Stack))
	if s.Bet > t.CurrentBet {
		t.CurrentBet = s.Bet
	}
}

// commit moves chips from a seat's stack into the pot.
func (t *Table) commit(s *Seat, amount int) {
	s.Stack -= amount
	s.Bet += amount
	t.Pot += amount
	if s.Stack == 0 {
		s.IsAllIn = true
	}
}

// Apply validates and applies an action by playerID. A rejected action
// returns a *RejectedError and leaves the table untouched.
//
// Bet and raise move the seat's total street contribution to
// max(CurrentBet+MinRaise, amount), capped by its stack. Allin ignores amount.
func (t *Table) Apply(playerID string, action Action, amount int) error {
	reject := func(reason error) error {
		return &RejectedError{PlayerID: playerID, Action: action, Reason: reason}
	}

	if !t.inHand {
		return reject(ErrHandNotRunning)
	}
	seat := t.Room.Seat(playerID)
	if seat == nil {
		return reject(ErrUnknownPlayer)
	}
	if !action.Valid() {
		return reject(ErrUnknownAction)
	}
	if !seat.CanAct() {
		return reject(ErrSeatInactive)
	}
	if t.ToAct != playerID {
		return reject(ErrNotYourTurn)
	}

	toCall := t.ToCall(seat)
	before := seat.Stack

	switch action {
	case Fold:
		seat.Folded = true
	case Check:
		if toCall > 0 {
			return reject(ErrCannotCheck)
		}
	case Call:
		t.commit(seat, min(toCall, seat.Stack))
	case Bet, Raise:
		t.raiseTo(seat, max(t.CurrentBet+t.MinRaise, amount))
	case AllIn:
		t.raiseTo(seat, seat.Bet+seat.Stack)
	}

	seat.HasActed = true
	t.LastAction = &ActionRecord{PlayerID: playerID, Action: action, Amount: before - seat.Stack}
	t.settleTurn()
	return nil
}

// raiseTo brings the seat's street contribution up to target, or as close as
// its stack allows, and reopens the betting if the current bet was exceeded.
func (t *Table) raiseTo(s *Seat, target int) {
	prev := t.CurrentBet
	t.commit(s, min(max(target-s.Bet, 0), s.Stack))
	if s.Bet > prev {
		t.MinRaise = max(t.MinRaise, s.Bet-prev, t.Room.BigBlind)
		t.CurrentBet = s.Bet
	}
}

// settleTurn decides what happens after the seat at CurrentPos is done:
// fold-out, run-out, next street or next seat.
func (t *Table) settleTurn() {
	if len(t.live()) == 1 {
		t.finishFoldOut()
		return
	}

	acting := t.actionable()
	if len(acting) == 0 || (len(acting) == 1 && acting[0].Bet >= t.CurrentBet) {
		t.runOut()
		return
	}

	complete := true
	for _, s := range acting {
		if !s.HasActed || s.Bet != t.CurrentBet {
			complete = false
			break
		}
	}
	if complete {
		t.advanceStreet()
		return
	}

	next := t.nextSeat(t.CurrentPos, (*Seat).CanAct)
	t.CurrentPos = next
	t.ToAct = t.Room.Seats[next].ID
}

// advanceStreet closes the betting round and deals the next street, or goes
// to showdown after the river.
func (t *Table) advanceStreet() {
	if t.Street >= River {
		t.showdown()
		return
	}
	t.nextStreet()
	t.CurrentPos = t.Room.DealerPos
	t.ToAct = ""
	t.settleTurn()
}

func (t *Table) nextStreet() {
	for _, s := range t.Room.Seats {
		s.Bet = 0
		if s.CanAct() {
			s.HasActed = false
		}
	}
	t.CurrentBet = 0
	t.MinRaise = t.Room.BigBlind
	t.Street++
	t.dealCommunity(t.Street.communityCards() - len(t.Community))
}

func (t *Table) dealCommunity(n int) {
	cards := t.deck.Deal(n)
	if cards == nil {
		t.logger.Error("deck exhausted dealing community cards", "room", t.Room.ID, "hand", t.Room.HandNumber, "street", t.Street)
		return
	}
	t.Community = append(t.Community, cards...)
}

// runOut deals the remaining board without further betting and goes to showdown.
func (t *Table) runOut() {
	t.ToAct = ""
	for t.Street < River {
		t.nextStreet()
	}
	t.showdown()
}
