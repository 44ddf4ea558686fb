package statistics

import (
	"sort"
	"sync"

	"github.com/lox/holdem-engine/internal/game"
)

// Tracker builds per-player statistics from a table's published snapshots.
// Its Publish method satisfies engine.Publisher.
//
// Stacks are read whenever no hand is running; a finished hand's result for
// each seat that was dealt in is its stack change since the previous settled
// snapshot. Seats with no settled stack take it from the hand's first
// preflop snapshot, where stack plus bet is the starting stack.
type Tracker struct {
	mu        sync.Mutex
	players   map[string]*Statistics
	settled   map[string]int
	seenHand  int
	lastHand  int
	hands     int
	imbalance int
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		players: make(map[string]*Statistics),
		settled: make(map[string]int),
	}
}

// Publish records the snapshot.
func (t *Tracker) Publish(s game.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s.Started {
		if s.HandNumber != t.seenHand && s.Street == game.Preflop {
			t.seenHand = s.HandNumber
			for _, seat := range s.Seats {
				if _, ok := t.settled[seat.ID]; !ok {
					t.settled[seat.ID] = seat.Stack + seat.Bet
				}
			}
		}
		return
	}
	if s.Result != nil && s.HandNumber > t.lastHand {
		t.record(s)
	}
	for _, seat := range s.Seats {
		t.settled[seat.ID] = seat.Stack
	}
}

func (t *Tracker) record(s game.Snapshot) {
	t.lastHand = s.HandNumber
	t.hands++

	bb := float64(max(s.BigBlind, 1))
	n := len(s.Seats)
	for _, seat := range s.Seats {
		before, ok := t.settled[seat.ID]
		if !ok || seat.SittingOut {
			continue
		}
		net := seat.Stack - before
		t.imbalance += net

		stats := t.players[seat.ID]
		if stats == nil {
			stats = &Statistics{}
			t.players[seat.ID] = stats
		}
		stats.Add(HandResult{
			NetChips:       net,
			NetBB:          float64(net) / bb,
			Position:       (seat.SeatIndex - s.DealerPos + n) % n,
			WentToShowdown: s.Result.Showdown,
			PotBB:          float64(s.Result.Payout.Pot) / bb,
			StreetReached:  streetReached(s),
		})
	}
}

func streetReached(s game.Snapshot) game.Street {
	switch len(s.Community) {
	case 0:
		return game.Preflop
	case 3:
		return game.Flop
	case 4:
		return game.Turn
	default:
		return game.River
	}
}

// Player returns a copy of a player's statistics.
func (t *Tracker) Player(id string) (Statistics, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.players[id]
	if !ok {
		return Statistics{}, false
	}
	out := *s
	out.Values = append([]float64(nil), s.Values...)
	return out, true
}

// Balanced reports whether every recorded hand was zero-sum across players.
func (t *Tracker) Balanced() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.imbalance == 0
}

// PlayerSummary is one row of a Summary.
type PlayerSummary struct {
	ID              string  `json:"id"`
	Hands           int     `json:"hands"`
	NetChips        int     `json:"netChips"`
	MeanBB          float64 `json:"meanBb"`
	StdDevBB        float64 `json:"stdDevBb"`
	ShowdownWins    int     `json:"showdownWins"`
	NonShowdownWins int     `json:"nonShowdownWins"`
	MaxPotBB        float64 `json:"maxPotBb"`
}

// Summary is the table's results so far.
type Summary struct {
	Hands    int             `json:"hands"`
	Balanced bool            `json:"balanced"`
	Players  []PlayerSummary `json:"players"`
}

// Summary returns every player's results, biggest winner first.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	sum := Summary{Hands: t.hands, Balanced: t.imbalance == 0, Players: []PlayerSummary{}}
	for id, s := range t.players {
		sum.Players = append(sum.Players, PlayerSummary{
			ID:              id,
			Hands:           s.Hands,
			NetChips:        s.NetChips,
			MeanBB:          s.Mean(),
			StdDevBB:        s.StdDev(),
			ShowdownWins:    s.ShowdownWins,
			NonShowdownWins: s.NonShowdownWins,
			MaxPotBB:        s.MaxPotBB,
		})
	}
	sort.Slice(sum.Players, func(i, j int) bool {
		a, b := sum.Players[i], sum.Players[j]
		if a.NetChips != b.NetChips {
			return a.NetChips > b.NetChips
		}
		return a.ID < b.ID
	})
	return sum
}
