package game

import (
	"time"

	"github.com/lox/holdem-engine/poker"
)

// SeatView is the published view of a seat.
type SeatView struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Stack      int          `json:"stack"`
	SeatIndex  int          `json:"seatIndex"`
	HasActed   bool         `json:"hasActed"`
	IsAllIn    bool         `json:"isAllIn"`
	Folded     bool         `json:"folded"`
	SittingOut bool         `json:"sittingOut,omitempty"`
	IsBot      bool         `json:"isBot"`
	Bet        int          `json:"bet"`
	Hand       []poker.Card `json:"hand,omitempty"`
}

// Snapshot is a copy of the table state published after every change.
// It shares no memory with the Table.
type Snapshot struct {
	RoomID       string        `json:"roomId"`
	Seats        []SeatView    `json:"seats"`
	Community    []poker.Card  `json:"community"`
	Pot          int           `json:"pot"`
	DealerPos    int           `json:"dealerPos"`
	CurrentPos   int           `json:"currentPos"`
	SmallBlind   int           `json:"smallBlind"`
	BigBlind     int           `json:"bigBlind"`
	MinRaise     int           `json:"minRaise"`
	CurrentBet   int           `json:"currentBet"`
	Street       Street        `json:"street"`
	ToAct        string        `json:"toAct,omitempty"`
	HandID       string        `json:"handId,omitempty"`
	HandNumber   int           `json:"handNumber"`
	SeatsMax     int           `json:"seatsMax"`
	Started      bool          `json:"started"`
	Status       Status        `json:"status"`
	LastAction   *ActionRecord `json:"lastAction,omitempty"`
	Result       *Result       `json:"result,omitempty"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	TurnDeadline *time.Time    `json:"turnDeadline,omitempty"`
}

// Snapshot captures the current table state with every seat's hole cards.
// Use ForViewer before sending it to a player.
func (t *Table) Snapshot() Snapshot {
	r := t.Room
	snap := Snapshot{
		RoomID:     r.ID,
		Seats:      make([]SeatView, len(r.Seats)),
		Community:  append([]poker.Card{}, t.Community...),
		Pot:        t.Pot,
		DealerPos:  r.DealerPos,
		CurrentPos: t.CurrentPos,
		SmallBlind: r.SmallBlind,
		BigBlind:   r.BigBlind,
		MinRaise:   t.MinRaise,
		CurrentBet: t.CurrentBet,
		Street:     t.Street,
		ToAct:      t.ToAct,
		HandID:     t.HandID,
		HandNumber: r.HandNumber,
		SeatsMax:   r.SeatsMax,
		Started:    t.inHand,
		Status:     r.Status,
	}
	for i, s := range r.Seats {
		snap.Seats[i] = SeatView{
			ID:         s.ID,
			Name:       s.Name,
			Stack:      s.Stack,
			SeatIndex:  s.SeatIndex,
			HasActed:   s.HasActed,
			IsAllIn:    s.IsAllIn,
			Folded:     s.Folded,
			SittingOut: s.SittingOut,
			IsBot:      s.IsBot,
			Bet:        s.Bet,
			Hand:       append([]poker.Card(nil), s.Hand...),
		}
	}
	if t.LastAction != nil {
		last := *t.LastAction
		snap.LastAction = &last
	}
	if t.Result != nil {
		snap.Result = t.Result.clone()
	}
	return snap
}

func (r *Result) clone() *Result {
	c := *r
	c.Payout.WinnerIDs = append([]string(nil), r.Payout.WinnerIDs...)
	c.Hands = make([]ShownHand, len(r.Hands))
	for i, h := range r.Hands {
		h.Cards = append([]poker.Card(nil), h.Cards...)
		c.Hands[i] = h
	}
	if r.Hands == nil {
		c.Hands = nil
	}
	return &c
}

// ForViewer returns a copy in which only playerID's hole cards and hands
// revealed at showdown are visible. An empty playerID yields the spectator view.
func (s Snapshot) ForViewer(playerID string) Snapshot {
	revealed := make(map[string]bool)
	if s.Result != nil && s.Result.Showdown {
		for _, h := range s.Result.Hands {
			revealed[h.PlayerID] = true
		}
	}

	out := s
	out.Seats = make([]SeatView, len(s.Seats))
	for i, seat := range s.Seats {
		if seat.ID != playerID && !revealed[seat.ID] {
			seat.Hand = nil
		} else {
			seat.Hand = append([]poker.Card(nil), seat.Hand...)
		}
		out.Seats[i] = seat
	}
	out.Community = append([]poker.Card{}, s.Community...)
	if s.Result != nil {
		out.Result = s.Result.clone()
	}
	return out
}

// Public is the spectator view with no hole cards except showdown reveals.
func (s Snapshot) Public() Snapshot {
	return s.ForViewer("")
}
