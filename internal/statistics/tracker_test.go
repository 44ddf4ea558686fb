package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/internal/randutil"
)

func newTable(t *testing.T, ids ...string) *game.Table {
	t.Helper()
	room := game.NewRoom("stats", 6, 5, 10)
	for _, id := range ids {
		_, err := room.AddSeat(id, id, 1000, false)
		require.NoError(t, err)
	}
	return game.NewTable(room, game.WithRNG(randutil.New(3)))
}

func TestTrackerFoldOut(t *testing.T) {
	tbl := newTable(t, "a", "b")
	tr := NewTracker()
	tr.Publish(tbl.Snapshot())

	require.NoError(t, tbl.StartHand())
	tr.Publish(tbl.Snapshot())
	require.Equal(t, "b", tbl.ToAct)
	require.NoError(t, tbl.Apply("b", game.Fold, 0))
	tr.Publish(tbl.Snapshot())
	tr.Publish(tbl.Snapshot())

	a, ok := tr.Player("a")
	require.True(t, ok)
	assert.Equal(t, 1, a.Hands)
	assert.Equal(t, 5, a.NetChips)
	assert.InDelta(t, 0.5, a.Mean(), 1e-9)
	assert.Equal(t, 1, a.NonShowdownWins)
	assert.Equal(t, 1, a.PositionResults[0].Hands, "a holds the button")
	assert.InDelta(t, 1.5, a.MaxPotBB, 1e-9)

	b, ok := tr.Player("b")
	require.True(t, ok)
	assert.Equal(t, -5, b.NetChips)
	assert.Equal(t, 1, b.PositionResults[1].Hands)

	sum := tr.Summary()
	assert.Equal(t, 1, sum.Hands)
	assert.True(t, sum.Balanced)
	require.Len(t, sum.Players, 2)
	assert.Equal(t, "a", sum.Players[0].ID)
	assert.Equal(t, "b", sum.Players[1].ID)

	_, ok = tr.Player("nobody")
	assert.False(t, ok)
}

func TestTrackerWithoutIdleSnapshot(t *testing.T) {
	tbl := newTable(t, "a", "b")
	tr := NewTracker()

	require.NoError(t, tbl.StartHand())
	tr.Publish(tbl.Snapshot())
	require.NoError(t, tbl.Apply("b", game.Call, 0))
	tr.Publish(tbl.Snapshot())
	require.NoError(t, tbl.Apply("a", game.Raise, 40))
	tr.Publish(tbl.Snapshot())
	require.NoError(t, tbl.Apply("b", game.Fold, 0))
	tr.Publish(tbl.Snapshot())

	sum := tr.Summary()
	assert.True(t, sum.Balanced)
	require.Len(t, sum.Players, 2)
	assert.Equal(t, PlayerSummary{ID: "a", Hands: 1, NetChips: 10, MeanBB: 1, NonShowdownWins: 1, MaxPotBB: 5}, sum.Players[0])
	assert.Equal(t, -10, sum.Players[1].NetChips)
}

func TestTrackerStaysBalancedOverManyHands(t *testing.T) {
	tbl := newTable(t, "a", "b", "c")
	tr := NewTracker()
	tr.Publish(tbl.Snapshot())

	for hand := 0; hand < 30; hand++ {
		if err := tbl.StartHand(); err != nil {
			require.ErrorIs(t, err, game.ErrNotEnoughPlayers)
			break
		}
		tr.Publish(tbl.Snapshot())
		for tbl.InHand() {
			seat := tbl.ToActSeat()
			action := game.Call
			if tbl.ToCall(seat) == 0 {
				action = game.Check
			}
			require.NoError(t, tbl.Apply(seat.ID, action, 0))
			tr.Publish(tbl.Snapshot())
		}
	}

	sum := tr.Summary()
	assert.True(t, sum.Balanced)
	assert.True(t, tr.Balanced())
	total := 0
	for _, p := range sum.Players {
		total += p.NetChips
		s, _ := tr.Player(p.ID)
		assert.NoError(t, s.Validate())
	}
	assert.Zero(t, total)
}
