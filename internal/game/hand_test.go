package game

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-engine/internal/handid"
	"github.com/lox/holdem-engine/internal/randutil"
	"github.com/lox/holdem-engine/poker"
)

func TestStartHandHeadsUpBlinds(t *testing.T) {
	room := newRoom(t, 5, 10, seatSpec{"alice", 1000}, seatSpec{"bob", 1000})
	tbl := NewTable(room, WithRNG(randutil.New(1)))

	require.NoError(t, tbl.StartHand())
	require.NoError(t, tbl.Validate())

	alice, bob := room.Seat("alice"), room.Seat("bob")
	assert.Equal(t, 0, room.DealerPos)
	assert.Equal(t, 1, room.HandNumber)
	assert.Equal(t, StatusRunning, room.Status)

	// The two seats after the dealer post: bob the small, the dealer the big.
	assert.Equal(t, 5, bob.Bet)
	assert.Equal(t, 10, alice.Bet)
	assert.Equal(t, 15, tbl.Pot)
	assert.Equal(t, 10, tbl.CurrentBet)
	assert.Equal(t, 10, tbl.MinRaise)
	assert.Equal(t, "bob", tbl.ToAct)
	assert.Len(t, alice.Hand, 2)
	assert.Len(t, bob.Hand, 2)
	assert.Empty(t, tbl.Community)
	assert.Equal(t, Preflop, tbl.Street)
}

func TestStartHandThreeHanded(t *testing.T) {
	room := newRoom(t, 5, 10, seatSpec{"a", 1000}, seatSpec{"b", 1000}, seatSpec{"c", 1000})
	tbl := NewTable(room, WithRNG(randutil.New(2)))

	require.NoError(t, tbl.StartHand())
	sb, bb := tbl.BlindSeats()
	assert.Equal(t, 1, sb)
	assert.Equal(t, 2, bb)
	assert.Equal(t, "a", tbl.ToAct, "first to act sits after the big blind")
	assert.Equal(t, 0, tbl.CurrentPos)
}

func TestDealerAdvancesOneSeatPerHand(t *testing.T) {
	room := newRoom(t, 5, 10, seatSpec{"a", 1000}, seatSpec{"b", 1000}, seatSpec{"c", 1000})
	tbl := NewTable(room, WithRNG(randutil.New(3)))

	for hand := 0; hand < 6; hand++ {
		require.NoError(t, tbl.StartHand())
		assert.Equal(t, hand%3, room.DealerPos)
		for tbl.InHand() {
			require.NoError(t, tbl.Apply(tbl.ToAct, Fold, 0))
		}
	}
}

func TestStartHandRequiresTwoFundedSeats(t *testing.T) {
	room := newRoom(t, 5, 10, seatSpec{"a", 1000}, seatSpec{"b", 0})
	tbl := NewTable(room)

	err := tbl.StartHand()
	require.ErrorIs(t, err, ErrNotEnoughPlayers)
	assert.Equal(t, StatusWaiting, room.Status)
	assert.Zero(t, room.HandNumber)
	assert.False(t, tbl.InHand())

	require.NoError(t, NewTable(newRoom(t, 5, 10, seatSpec{"a", 1}, seatSpec{"b", 1})).StartHand())
}

func TestStartHandWhileRunning(t *testing.T) {
	room := newRoom(t, 5, 10, seatSpec{"a", 1000}, seatSpec{"b", 1000})
	tbl := NewTable(room)
	require.NoError(t, tbl.StartHand())
	assert.ErrorIs(t, tbl.StartHand(), ErrHandInProgress)
}

func TestSittingOutSeatIsDealtOut(t *testing.T) {
	room := newRoom(t, 5, 10, seatSpec{"a", 1000}, seatSpec{"broke", 0}, seatSpec{"c", 1000})
	tbl := NewTable(room, WithRNG(randutil.New(4)))
	require.NoError(t, tbl.StartHand())

	broke := room.Seat("broke")
	assert.True(t, broke.SittingOut)
	assert.True(t, broke.Folded)
	assert.Empty(t, broke.Hand)

	sb, bb := tbl.BlindSeats()
	assert.Equal(t, 2, sb, "small blind skips the empty seat")
	assert.Equal(t, 0, bb)

	err := tbl.Apply("broke", Check, 0)
	assert.ErrorIs(t, err, ErrSeatInactive)
}

func TestHeadsUpCheckDownToShowdown(t *testing.T) {
	room := newRoom(t, 5, 10, seatSpec{"alice", 1000}, seatSpec{"bob", 1000})
	tbl := NewTable(room, WithDeckSource(scriptedDeck(room,
		map[string]string{"alice": "As Ks", "bob": "2c 7d"},
		"Ah Kd 9s 4c 3h",
	)))
	require.NoError(t, tbl.StartHand())

	mustApply(t, tbl, "bob", Call, 0)
	mustApply(t, tbl, "alice", Check, 0)
	require.Equal(t, Flop, tbl.Street)
	assert.Len(t, tbl.Community, 3)
	assert.Zero(t, tbl.CurrentBet)

	for _, street := range []Street{Turn, River} {
		mustApply(t, tbl, "bob", Check, 0)
		mustApply(t, tbl, "alice", Check, 0)
		require.Equal(t, street, tbl.Street)
		assert.Len(t, tbl.Community, street.communityCards())
	}

	mustApply(t, tbl, "bob", Check, 0)
	mustApply(t, tbl, "alice", Check, 0)

	assert.False(t, tbl.InHand())
	assert.Equal(t, Showdown, tbl.Street)
	assert.Empty(t, tbl.ToAct)
	assert.Zero(t, tbl.Pot)
	assert.Equal(t, map[string]int{"alice": 1010, "bob": 990}, stacks(room))

	require.NotNil(t, tbl.Result)
	assert.True(t, tbl.Result.Showdown)
	assert.Equal(t, Payout{HandNumber: 1, WinnerIDs: []string{"alice"}, AmountEach: 20, Pot: 20}, tbl.Result.Payout)
	require.Len(t, tbl.Result.Hands, 2)
	assert.Equal(t, "Two Pair, Aces and Kings", tbl.Result.Hands[0].Description)
}

func TestFoldOutEndsHand(t *testing.T) {
	room := newRoom(t, 5, 10, seatSpec{"a", 1000}, seatSpec{"b", 1000}, seatSpec{"c", 1000})
	tbl := NewTable(room, WithRNG(randutil.New(5)))
	require.NoError(t, tbl.StartHand())

	mustApply(t, tbl, "a", Fold, 0)
	mustApply(t, tbl, "b", Fold, 0)

	assert.Equal(t, Ended, tbl.Street)
	assert.False(t, tbl.InHand())
	assert.Empty(t, tbl.Community)
	assert.Equal(t, map[string]int{"a": 1000, "b": 995, "c": 1005}, stacks(room))
	require.NotNil(t, tbl.Result)
	assert.False(t, tbl.Result.Showdown)
	assert.Empty(t, tbl.Result.Hands)
	assert.Equal(t, []string{"c"}, tbl.Result.Payout.WinnerIDs)
	assert.Equal(t, 15, tbl.Result.Payout.AmountEach)
}

func TestHandIDsFlowIntoSnapshotAndPayout(t *testing.T) {
	room := newRoom(t, 5, 10, seatSpec{"a", 1000}, seatSpec{"b", 1000})
	n := 0
	tbl := NewTable(room, WithRNG(randutil.New(5)), WithHandIDs(func() string {
		n++
		return fmt.Sprintf("hand-%d", n)
	}))

	require.NoError(t, tbl.StartHand())
	assert.Equal(t, "hand-1", tbl.Snapshot().HandID)
	require.NoError(t, tbl.Apply(tbl.ToAct, Fold, 0))
	assert.Equal(t, "hand-1", tbl.Result.Payout.HandID)

	require.NoError(t, tbl.StartHand())
	assert.Equal(t, "hand-2", tbl.HandID)
}

func TestDefaultHandIDsAreValid(t *testing.T) {
	room := newRoom(t, 5, 10, seatSpec{"a", 1000}, seatSpec{"b", 1000})
	tbl := NewTable(room)
	require.NoError(t, tbl.StartHand())
	assert.NoError(t, handid.Validate(tbl.HandID))
}

func TestBigBlindGetsOption(t *testing.T) {
	room := newRoom(t, 5, 10, seatSpec{"a", 1000}, seatSpec{"b", 1000}, seatSpec{"c", 1000})
	tbl := NewTable(room, WithRNG(randutil.New(6)))
	require.NoError(t, tbl.StartHand())

	mustApply(t, tbl, "a", Call, 0)
	mustApply(t, tbl, "b", Call, 0)
	require.Equal(t, Preflop, tbl.Street)
	assert.Equal(t, "c", tbl.ToAct)

	mustApply(t, tbl, "c", Raise, 30)
	assert.Equal(t, 30, tbl.CurrentBet)
	assert.Equal(t, "a", tbl.ToAct, "raise reopens the action")
	mustApply(t, tbl, "a", Call, 0)
	mustApply(t, tbl, "b", Call, 0)
	assert.Equal(t, Flop, tbl.Street)
	assert.Equal(t, "b", tbl.ToAct, "first live seat left of the dealer acts first")
}

func TestRaiseSizing(t *testing.T) {
	room := newRoom(t, 5, 10, seatSpec{"a", 1000}, seatSpec{"b", 1000}, seatSpec{"c", 60})
	tbl := NewTable(room, WithRNG(randutil.New(7)))
	require.NoError(t, tbl.StartHand())

	mustApply(t, tbl, "a", Raise, 25)
	assert.Equal(t, 25, tbl.CurrentBet)
	assert.Equal(t, 15, tbl.MinRaise)

	// Below the minimum is lifted to CurrentBet+MinRaise.
	mustApply(t, tbl, "b", Raise, 30)
	assert.Equal(t, 40, room.Seat("b").Bet)
	assert.Equal(t, 40, tbl.CurrentBet)
	assert.Equal(t, 15, tbl.MinRaise)

	// A raise larger than the stack is capped and goes all-in.
	mustApply(t, tbl, "c", Raise, 500)
	c := room.Seat("c")
	assert.True(t, c.IsAllIn)
	assert.Zero(t, c.Stack)
	assert.Equal(t, 60, c.Bet)
	assert.Equal(t, 60, tbl.CurrentBet)
	assert.Equal(t, 20, tbl.MinRaise)
	assert.Equal(t, &ActionRecord{PlayerID: "c", Action: Raise, Amount: 50}, tbl.LastAction)

	mustApply(t, tbl, "a", Bet, 0)
	assert.Equal(t, 80, tbl.CurrentBet, "bet without amount is a minimum raise")
}

func TestAllInBelowCurrentBetDoesNotRaise(t *testing.T) {
	room := newRoom(t, 5, 10, seatSpec{"a", 1000}, seatSpec{"b", 1000}, seatSpec{"c", 1000}, seatSpec{"d", 8})
	tbl := NewTable(room, WithRNG(randutil.New(8)))
	require.NoError(t, tbl.StartHand())

	mustApply(t, tbl, "d", AllIn, 0)
	assert.Equal(t, 10, tbl.CurrentBet)
	assert.Equal(t, 10, tbl.MinRaise)
	assert.True(t, room.Seat("d").IsAllIn)
	assert.Equal(t, "a", tbl.ToAct)
}

func TestCallForLessIsAllIn(t *testing.T) {
	room := newRoom(t, 5, 10, seatSpec{"a", 1000}, seatSpec{"b", 1000}, seatSpec{"c", 50})
	tbl := NewTable(room, WithRNG(randutil.New(9)))
	require.NoError(t, tbl.StartHand())

	mustApply(t, tbl, "a", Raise, 200)
	mustApply(t, tbl, "b", Fold, 0)
	mustApply(t, tbl, "c", Call, 0)

	c := room.Seat("c")
	assert.True(t, c.IsAllIn)
	assert.Equal(t, 50, c.Bet)
	assert.Equal(t, 200, tbl.CurrentBet)
	// Only "a" can still act and has matched, so the board runs out.
	assert.Equal(t, Showdown, tbl.Street)
	assert.Len(t, tbl.Community, 5)
	assert.Equal(t, 2050, room.TotalStacks())
}

func TestAllInCascadeRunsOutBoard(t *testing.T) {
	room := newRoom(t, 5, 10, seatSpec{"a", 100}, seatSpec{"b", 200}, seatSpec{"c", 1000})
	tbl := NewTable(room, WithRNG(randutil.New(10)))
	require.NoError(t, tbl.StartHand())

	mustApply(t, tbl, "a", AllIn, 0)
	mustApply(t, tbl, "b", AllIn, 0)
	require.True(t, tbl.InHand())
	mustApply(t, tbl, "c", Call, 0)

	assert.False(t, tbl.InHand(), "no further input needed")
	assert.Equal(t, Showdown, tbl.Street)
	assert.Len(t, tbl.Community, 5)
	assert.Equal(t, 1300, room.TotalStacks())
	require.NotNil(t, tbl.Result)
	assert.Equal(t, 500, tbl.Result.Payout.Pot)
}

func TestLastActorMustMatchBeforeRunOut(t *testing.T) {
	room := newRoom(t, 5, 10, seatSpec{"a", 100}, seatSpec{"b", 1000}, seatSpec{"c", 1000})
	tbl := NewTable(room, WithRNG(randutil.New(11)))
	require.NoError(t, tbl.StartHand())

	mustApply(t, tbl, "a", AllIn, 0)
	mustApply(t, tbl, "b", Fold, 0)
	assert.Equal(t, "c", tbl.ToAct, "the last seat still faces the all-in")
	mustApply(t, tbl, "c", Call, 0)
	assert.Equal(t, Showdown, tbl.Street)
}

func TestBlindsCanPutEveryoneAllIn(t *testing.T) {
	room := newRoom(t, 5, 10, seatSpec{"a", 10}, seatSpec{"b", 5})
	tbl := NewTable(room, WithRNG(randutil.New(12)))
	require.NoError(t, tbl.StartHand())

	assert.False(t, tbl.InHand())
	assert.Equal(t, Showdown, tbl.Street)
	assert.Len(t, tbl.Community, 5)
	assert.Equal(t, 15, room.TotalStacks())
	require.NoError(t, tbl.Validate())
}

func TestRejectedActionsLeaveStateUntouched(t *testing.T) {
	room := newRoom(t, 5, 10, seatSpec{"a", 1000}, seatSpec{"b", 1000}, seatSpec{"c", 1000})
	tbl := NewTable(room, WithRNG(randutil.New(13)))
	require.NoError(t, tbl.StartHand())
	mustApply(t, tbl, "a", Fold, 0)

	tests := []struct {
		name   string
		player string
		action Action
		reason error
	}{
		{"wrong turn", "c", Call, ErrNotYourTurn},
		{"folded seat", "a", Call, ErrSeatInactive},
		{"unknown player", "zed", Call, ErrUnknownPlayer},
		{"unknown action", "b", Action(42), ErrUnknownAction},
		{"check facing bet", "b", Check, ErrCannotCheck},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tbl.Snapshot()
			err := tbl.Apply(tt.player, tt.action, 0)

			var rej *RejectedError
			require.True(t, errors.As(err, &rej))
			assert.ErrorIs(t, err, tt.reason)
			assert.Equal(t, tt.player, rej.PlayerID)
			assert.True(t, IsRejected(err))
			assert.Equal(t, before, tbl.Snapshot())
		})
	}
}

func TestApplyWithoutHand(t *testing.T) {
	room := newRoom(t, 5, 10, seatSpec{"a", 1000}, seatSpec{"b", 1000})
	tbl := NewTable(room)
	assert.ErrorIs(t, tbl.Apply("a", Check, 0), ErrHandNotRunning)
}

func TestThreeWayChopAwardsRemainderLeftOfDealer(t *testing.T) {
	room := newRoom(t, 5, 10,
		seatSpec{"d", 1000}, seatSpec{"sb", 1000}, seatSpec{"bb", 1000}, seatSpec{"utg", 1000})
	tbl := NewTable(room, WithDeckSource(scriptedDeck(room,
		map[string]string{"d": "2c 3d", "sb": "2d 3c", "bb": "2h 3h", "utg": "4c 2s"},
		"As Ks Qs Js Ts",
	)))
	require.NoError(t, tbl.StartHand())

	mustApply(t, tbl, "utg", Call, 0)
	mustApply(t, tbl, "d", Call, 0)
	mustApply(t, tbl, "sb", Fold, 0)
	mustApply(t, tbl, "bb", Check, 0)
	for tbl.InHand() {
		mustApply(t, tbl, tbl.ToAct, Check, 0)
	}

	require.NotNil(t, tbl.Result)
	p := tbl.Result.Payout
	assert.Equal(t, 35, p.Pot)
	assert.Equal(t, []string{"bb", "utg", "d"}, p.WinnerIDs)
	assert.Equal(t, 11, p.AmountEach)
	assert.Equal(t, 2, p.Remainder)
	assert.Equal(t, "bb", p.RemainderTo)
	assert.Equal(t, p.AmountEach*len(p.WinnerIDs)+p.Remainder, p.Pot)
	assert.Equal(t, map[string]int{"d": 1001, "sb": 995, "bb": 1003, "utg": 1001}, stacks(room))
}

func TestEvaluationFailureIsCounted(t *testing.T) {
	room := newRoom(t, 5, 10, seatSpec{"a", 1000}, seatSpec{"b", 1000})
	// Dealing order is b, a, b, a. Alice's second card is corrupt.
	cards := append(poker.MustParseCards("2c As 7d"), poker.Card{})
	cards = append(cards, poker.MustParseCards("Kh Qd 9s 4c 3h")...)
	tbl := NewTable(room, WithDeckSource(func() *poker.Deck { return poker.NewStackedDeck(cards) }))
	require.NoError(t, tbl.StartHand())

	mustApply(t, tbl, "b", Call, 0)
	mustApply(t, tbl, "a", Check, 0)
	for tbl.InHand() {
		mustApply(t, tbl, tbl.ToAct, Check, 0)
	}

	assert.Equal(t, 1, tbl.EvalFailures)
	assert.Equal(t, []string{"b"}, tbl.Result.Payout.WinnerIDs)
	assert.Equal(t, poker.InvalidRank, tbl.Result.Hands[0].Rank)
}

func TestLeaveBetweenHands(t *testing.T) {
	room := newRoom(t, 5, 10, seatSpec{"a", 1000}, seatSpec{"b", 1000}, seatSpec{"c", 1000})
	tbl := NewTable(room, WithRNG(randutil.New(14)))
	require.NoError(t, tbl.StartHand())
	assert.ErrorIs(t, tbl.Leave("b"), ErrHandInProgress)

	for tbl.InHand() {
		require.NoError(t, tbl.Apply(tbl.ToAct, Fold, 0))
	}
	require.NoError(t, tbl.Leave("b"))
	assert.Len(t, room.Seats, 2)
	assert.Equal(t, 1, room.Seat("c").SeatIndex)
	require.NoError(t, tbl.Validate())
	assert.ErrorIs(t, tbl.Leave("b"), ErrUnknownPlayer)
}
