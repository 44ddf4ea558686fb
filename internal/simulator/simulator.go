// Package simulator plays bot strategies against each other without timers
// or transport, to measure a strategy's results over many hands.
package simulator

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/internal/bot"
	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/internal/randutil"
	"github.com/lox/holdem-engine/internal/statistics"
	"github.com/lox/holdem-engine/poker"
)

// HeroID is the seat id of the strategy under test.
const HeroID = "hero"

// maxActions bounds a single hand; a hand that needs more has a stuck state machine.
const maxActions = 1000

// Config holds configuration for running simulations.
type Config struct {
	Hands      int
	Seats      int
	Hero       bot.Strategy
	Opponent   bot.Strategy
	Seed       int64
	SmallBlind int
	BigBlind   int
	Stack      int // starting stack for every seat, refreshed each hand
	Logger     *log.Logger
}

func (c *Config) applyDefaults() {
	if c.Seats == 0 {
		c.Seats = 6
	}
	if c.SmallBlind == 0 && c.BigBlind == 0 {
		c.SmallBlind, c.BigBlind = 1, 2
	}
	if c.Stack == 0 {
		c.Stack = c.BigBlind * 100
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	var errs []error
	if c.Hands <= 0 {
		errs = append(errs, errors.New("hands must be positive"))
	}
	if c.Seats < 2 || c.Seats > statistics.MaxPositions {
		errs = append(errs, fmt.Errorf("seats must be between 2 and %d", statistics.MaxPositions))
	}
	if c.Hero == nil || c.Opponent == nil {
		errs = append(errs, errors.New("hero and opponent strategies are required"))
	}
	if c.SmallBlind <= 0 || c.BigBlind < c.SmallBlind {
		errs = append(errs, errors.New("blinds must be positive with big blind >= small blind"))
	}
	return errors.Join(errs...)
}

// Simulator runs poker hand simulations.
type Simulator struct {
	config  Config
	tracker *statistics.Tracker
	table   *game.Table
	botRNG  *rand.Rand
}

// New creates a simulator with the given configuration.
func New(config Config) *Simulator {
	config.applyDefaults()
	return &Simulator{config: config, tracker: statistics.NewTracker()}
}

// Run plays every hand and returns the hero's statistics. The hero sits on
// seat 0 and the button moves one seat per hand, so every position is played
// equally often. Stacks are refreshed before each hand and each hand's deck
// is shuffled from its own seed.
func (s *Simulator) Run() (*statistics.Statistics, error) {
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if err := s.seat(); err != nil {
		return nil, err
	}

	for hand := 1; hand <= s.config.Hands; hand++ {
		if err := s.playHand(); err != nil {
			return nil, fmt.Errorf("hand %d (seed %d): %w", hand, s.handSeed(hand), err)
		}
	}

	if !s.tracker.Balanced() {
		return nil, errors.New("results are not zero-sum")
	}
	stats, ok := s.tracker.Player(HeroID)
	if !ok {
		return nil, errors.New("hero played no hands")
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return &stats, nil
}

// Summary returns every seat's results.
func (s *Simulator) Summary() statistics.Summary {
	return s.tracker.Summary()
}

func (s *Simulator) handSeed(hand int) int64 {
	return s.config.Seed + int64(hand)
}

func (s *Simulator) seat() error {
	cfg := s.config
	room := game.NewRoom("sim", cfg.Seats, cfg.SmallBlind, cfg.BigBlind)
	for i := 0; i < cfg.Seats; i++ {
		id := HeroID
		if i > 0 {
			id = fmt.Sprintf("opp-%d", i)
		}
		if _, err := room.AddSeat(id, id, cfg.Stack, true); err != nil {
			return err
		}
	}

	s.table = game.NewTable(room,
		game.WithLogger(cfg.Logger),
		game.WithDeckSource(func() *poker.Deck {
			rng := randutil.New(s.handSeed(room.HandNumber))
			s.botRNG = randutil.Child(rng)
			return poker.NewDeck(rng)
		}),
		game.WithHandIDs(func() string {
			return fmt.Sprintf("sim-%d", s.handSeed(room.HandNumber))
		}))
	return nil
}

// playHand refreshes stacks and plays one hand to completion.
func (s *Simulator) playHand() error {
	tbl := s.table
	for _, seat := range tbl.Room.Seats {
		seat.Stack = s.config.Stack
	}

	s.tracker.Publish(tbl.Snapshot())
	if err := tbl.StartHand(); err != nil {
		return err
	}

	for actions := 0; tbl.InHand(); actions++ {
		if actions >= maxActions {
			return fmt.Errorf("hand did not finish after %d actions", maxActions)
		}
		if err := s.act(tbl); err != nil {
			return err
		}
	}

	if err := tbl.Validate(); err != nil {
		return err
	}
	s.tracker.Publish(tbl.Snapshot())
	return nil
}

// act applies the decision of the seat to act, falling back to check or fold
// when the strategy proposes something illegal.
func (s *Simulator) act(tbl *game.Table) error {
	seat := tbl.ToActSeat()
	if seat == nil {
		return errors.New("hand running with nobody to act")
	}
	strategy := s.config.Opponent
	if seat.ID == HeroID {
		strategy = s.config.Hero
	}

	sit := bot.SituationFor(tbl, seat)
	d := strategy.Decide(sit, s.botRNG)
	err := tbl.Apply(seat.ID, d.Action, d.Amount)
	if err == nil {
		return nil
	}
	if !game.IsRejected(err) {
		return err
	}
	s.config.Logger.Debug("illegal decision, falling back", "player", seat.ID, "decision", d, "err", err)
	return tbl.Apply(seat.ID, bot.FallbackAction(sit), 0)
}

// PrintSummary writes a summary of the hero's results.
func PrintSummary(w io.Writer, stats *statistics.Statistics, label string) {
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== RESULTS: %s ===\n", label)
	fmt.Fprintf(w, "Hands played: %d\n", stats.Hands)
	fmt.Fprintf(w, "Net: %d chips\n", stats.NetChips)

	fmt.Fprintf(w, "\n=== STATISTICAL RESULTS ===\n")
	fmt.Fprintf(w, "Mean: %.4f bb/hand\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.4f bb/hand\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.4f bb\n", stats.StdDev())
	fmt.Fprintf(w, "Std Error: %.4f bb\n", stats.StdError())
	fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] bb/hand\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.3f, P25=%.3f, P75=%.3f, P95=%.3f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))

	fmt.Fprintf(w, "\n=== PROFIT SOURCE ANALYSIS ===\n")
	if wins := stats.ShowdownWins + stats.NonShowdownWins; wins > 0 {
		fmt.Fprintf(w, "Winning hands: %d showdown (%.1f%%), %d without showdown (%.1f%%)\n",
			stats.ShowdownWins, float64(stats.ShowdownWins)/float64(wins)*100,
			stats.NonShowdownWins, float64(stats.NonShowdownWins)/float64(wins)*100)
	}
	fmt.Fprintf(w, "Showdown: %.2f bb/hand, non-showdown: %.2f bb/hand\n",
		stats.ShowdownBB/float64(stats.Hands), stats.NonShowdownBB/float64(stats.Hands))

	fmt.Fprintf(w, "\n=== POT SIZE ANALYSIS ===\n")
	fmt.Fprintf(w, "Max pot: %.1f bb\n", stats.MaxPotBB)
	fmt.Fprintf(w, "Big pots (>=50bb): %d hands, %.2f bb total\n", stats.BigPots, stats.BigPotsBB)

	fmt.Fprintf(w, "\n=== POSITION ANALYSIS ===\n")
	for pos, ps := range stats.PositionResults {
		if ps.Hands > 0 {
			fmt.Fprintf(w, "Button+%d: %d hands, %.3f bb/hand\n", pos, ps.Hands, stats.PositionMean(pos))
		}
	}
}
