package phh

import (
	"fmt"
	"sync"

	"github.com/lox/holdem-engine/internal/game"
)

// Recorder rebuilds each hand from a table's published snapshots and hands
// the finished history to a sink. Its Publish method satisfies
// engine.Publisher. It must see unfiltered snapshots to record hole cards.
//
// A hand is only recorded when the recorder sees its first snapshot, so a
// hand that ends while dealing (every seat all-in from the blinds) or that
// was already running when the recorder attached is skipped.
type Recorder struct {
	mu    sync.Mutex
	table string
	sink  func(*HandHistory)

	hand       *HandHistory
	handNumber int
	index      map[string]int
	streetBet  map[string]int
	maxBet     int
	dealt      int
	last       *game.ActionRecord
}

// NewRecorder creates a recorder for the named table.
func NewRecorder(table string, sink func(*HandHistory)) *Recorder {
	return &Recorder{table: table, sink: sink}
}

// Publish records the snapshot.
func (r *Recorder) Publish(s game.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.HandNumber != r.handNumber {
		r.hand = nil
		if !s.Started || s.Street != game.Preflop || s.LastAction != nil {
			return
		}
		r.begin(s)
	}
	if r.hand == nil {
		return
	}

	r.observe(s)
	if s.Result != nil {
		r.finish(s)
	}
}

func (r *Recorder) begin(s game.Snapshot) {
	r.handNumber = s.HandNumber
	r.index = make(map[string]int)
	r.streetBet = make(map[string]int)
	r.maxBet = 0
	r.dealt = 0
	r.last = nil

	h := &HandHistory{
		Variant:    "NT",
		Table:      r.table,
		SeatCount:  s.SeatsMax,
		MinBet:     s.BigBlind,
		HandID:     s.HandID,
		HandNumber: s.HandNumber,
	}
	if h.HandID == "" {
		h.HandID = fmt.Sprintf("%s-%d", r.table, s.HandNumber)
	}
	h.setTime(s.UpdatedAt)

	n := len(s.Seats)
	for i := 1; i <= n; i++ {
		seat := s.Seats[(s.DealerPos+i)%n]
		if seat.SittingOut {
			continue
		}
		p := len(h.Players)
		r.index[seat.ID] = p
		r.streetBet[seat.ID] = seat.Bet
		r.maxBet = max(r.maxBet, seat.Bet)

		h.Players = append(h.Players, seat.Name)
		h.Seats = append(h.Seats, seat.SeatIndex+1)
		h.Antes = append(h.Antes, 0)
		h.BlindsOrStraddles = append(h.BlindsOrStraddles, seat.Bet)
		h.StartingStacks = append(h.StartingStacks, seat.Stack+seat.Bet)
		h.Actions = append(h.Actions, fmt.Sprintf("d dh p%d %s", p+1, FormatCards(seat.Hand, 2)))
	}
	r.hand = h
}

func (r *Recorder) observe(s game.Snapshot) {
	if a := s.LastAction; a != nil && (r.last == nil || *a != *r.last) {
		rec := *a
		r.last = &rec
		if p, ok := r.index[a.PlayerID]; ok {
			total := r.streetBet[a.PlayerID] + a.Amount
			r.streetBet[a.PlayerID] = total
			raised := total > r.maxBet
			r.maxBet = max(r.maxBet, total)
			r.hand.Actions = append(r.hand.Actions, FormatAction(p, a.Action, total, raised))
		}
	}

	for r.dealt < len(s.Community) {
		n := 1
		if r.dealt == 0 {
			n = 3
		}
		n = min(n, len(s.Community)-r.dealt)
		r.hand.Actions = append(r.hand.Actions, "d db "+FormatCards(s.Community[r.dealt:r.dealt+n], n))
		r.dealt += n
		r.maxBet = 0
		for id := range r.streetBet {
			r.streetBet[id] = 0
		}
	}
}

func (r *Recorder) finish(s game.Snapshot) {
	h := r.hand
	r.hand = nil

	for _, shown := range s.Result.Hands {
		if p, ok := r.index[shown.PlayerID]; ok {
			h.Actions = append(h.Actions, fmt.Sprintf("p%d sm %s", p+1, FormatCards(shown.Cards, 2)))
		}
	}

	h.FinishingStacks = make([]int, len(h.Players))
	h.Winnings = make([]int, len(h.Players))
	for _, seat := range s.Seats {
		if p, ok := r.index[seat.ID]; ok {
			h.FinishingStacks[p] = seat.Stack
			h.Winnings[p] = s.Result.Payout.Total(seat.ID)
		}
	}

	if r.sink != nil {
		r.sink(h)
	}
}
