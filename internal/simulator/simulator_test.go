package simulator

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-engine/internal/bot"
	"github.com/lox/holdem-engine/internal/game"
)

func TestValidate(t *testing.T) {
	err := Config{}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hands must be positive")
	assert.Contains(t, err.Error(), "strategies are required")

	cfg := Config{Hands: 1, Seats: 11, Hero: bot.Passive{}, Opponent: bot.Passive{}, SmallBlind: 1, BigBlind: 2}
	assert.ErrorContains(t, cfg.Validate(), "seats must be between 2 and 10")

	cfg.Seats = 2
	assert.NoError(t, cfg.Validate())
}

func TestNewAppliesDefaults(t *testing.T) {
	sim := New(Config{Hands: 10, Hero: bot.Folder{}, Opponent: bot.Folder{}})
	assert.Equal(t, 6, sim.config.Seats)
	assert.Equal(t, 1, sim.config.SmallBlind)
	assert.Equal(t, 2, sim.config.BigBlind)
	assert.Equal(t, 200, sim.config.Stack)
	assert.NotNil(t, sim.config.Logger)
}

func TestRunInvalidConfig(t *testing.T) {
	_, err := New(Config{Hero: bot.Folder{}, Opponent: bot.Folder{}}).Run()
	assert.ErrorContains(t, err, "hands must be positive")
}

func TestFoldersOnlyTradeBlinds(t *testing.T) {
	// Everyone folds to the big blind, so the hero loses the small blind once
	// per orbit and wins it once per orbit.
	sim := New(Config{Hands: 60, Seats: 6, Hero: bot.Folder{}, Opponent: bot.Folder{}, Seed: 1})
	stats, err := sim.Run()
	require.NoError(t, err)

	assert.Equal(t, 60, stats.Hands)
	assert.Equal(t, 0, stats.NetChips)
	assert.Equal(t, 10, stats.NonShowdownWins)
	assert.Zero(t, stats.ShowdownWins)
	assert.InDelta(t, 1.5, stats.MaxPotBB, 1e-9)

	for pos := 0; pos < 6; pos++ {
		assert.Equal(t, 10, stats.PositionResults[pos].Hands, "position %d", pos)
	}
	assert.InDelta(t, -0.5, stats.PositionMean(1), 1e-9)
	assert.InDelta(t, 0.5, stats.PositionMean(2), 1e-9)
	assert.InDelta(t, 0, stats.PositionMean(0), 1e-9)
}

type alwaysCheck struct{}

func (alwaysCheck) Decide(bot.Situation, *rand.Rand) bot.Decision {
	return bot.Decision{Action: game.Check}
}

func TestIllegalDecisionFallsBack(t *testing.T) {
	sim := New(Config{Hands: 12, Seats: 6, Hero: alwaysCheck{}, Opponent: bot.Folder{}})
	stats, err := sim.Run()
	require.NoError(t, err)
	assert.Equal(t, 12, stats.Hands)
	assert.Equal(t, 0, stats.NetChips)
	assert.Equal(t, 2, stats.NonShowdownWins)
}

func TestRunIsDeterministic(t *testing.T) {
	run := func() *Simulator {
		sim := New(Config{Hands: 40, Seats: 4, Hero: bot.Heuristic{}, Opponent: bot.Random{}, Seed: 99})
		_, err := sim.Run()
		require.NoError(t, err)
		return sim
	}
	assert.Equal(t, run().Summary(), run().Summary())
}

func TestMixedStrategiesStayBalanced(t *testing.T) {
	sim := New(Config{Hands: 200, Seats: 3, Hero: bot.Random{}, Opponent: bot.Heuristic{}, Seed: 7})
	stats, err := sim.Run()
	require.NoError(t, err)
	assert.Equal(t, 200, stats.Hands)

	summary := sim.Summary()
	assert.True(t, summary.Balanced)
	assert.Equal(t, 200, summary.Hands)
	require.Len(t, summary.Players, 3)

	total := 0
	for _, p := range summary.Players {
		assert.Equal(t, 200, p.Hands)
		total += p.NetChips
	}
	assert.Zero(t, total)
}

func TestHeadsUp(t *testing.T) {
	stats, err := New(Config{Hands: 50, Seats: 2, Hero: bot.Passive{}, Opponent: bot.Random{}, Seed: 3}).Run()
	require.NoError(t, err)
	assert.Equal(t, 25, stats.PositionResults[0].Hands)
	assert.Equal(t, 25, stats.PositionResults[1].Hands)
}

func TestPrintSummary(t *testing.T) {
	stats, err := New(Config{Hands: 60, Hero: bot.Folder{}, Opponent: bot.Folder{}}).Run()
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, stats, "fold vs fold")
	out := buf.String()
	assert.Contains(t, out, "=== RESULTS: fold vs fold ===")
	assert.Contains(t, out, "Hands played: 60")
	assert.Contains(t, out, "Net: 0 chips")
	assert.Contains(t, out, "Winning hands: 0 showdown (0.0%), 10 without showdown (100.0%)")
	assert.Contains(t, out, "Button+5: 10 hands, 0.000 bb/hand")
	assert.Contains(t, out, "Max pot: 1.5 bb")
}
