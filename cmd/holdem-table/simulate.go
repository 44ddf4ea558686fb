package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/holdem-engine/internal/bot"
	"github.com/lox/holdem-engine/internal/fileutil"
	"github.com/lox/holdem-engine/internal/simulator"
)

// SimulateCmd plays one bot strategy against another without the server.
type SimulateCmd struct {
	Hands      int    `default:"10000" help:"Number of hands to simulate"`
	Hero       string `default:"heuristic" help:"Strategy under test: heuristic, passive, fold or random"`
	Opponent   string `default:"passive" help:"Strategy for every other seat"`
	Seats      int    `default:"6" help:"Seats at the table, including the hero"`
	Seed       int64  `default:"0" help:"RNG seed (0 for time-based)"`
	SmallBlind int    `default:"1" help:"Small blind"`
	BigBlind   int    `default:"2" help:"Big blind"`
	Stack      int    `default:"200" help:"Stack for every seat at the start of each hand"`
	Output     string `short:"o" type:"path" help:"Write every seat's results as JSON to this file"`
}

func (c *SimulateCmd) Run(cli *CLI) error {
	level := cli.LogLevel
	if level == "" {
		level = "info"
	}
	logger := newLogger(level)

	hero, err := bot.ByName(c.Hero)
	if err != nil {
		return err
	}
	opponent, err := bot.ByName(c.Opponent)
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger.Info("simulating", "hands", c.Hands, "hero", c.Hero, "opponent", c.Opponent, "seats", c.Seats, "seed", seed)
	start := time.Now()

	sim := simulator.New(simulator.Config{
		Hands:      c.Hands,
		Seats:      c.Seats,
		Hero:       hero,
		Opponent:   opponent,
		Seed:       seed,
		SmallBlind: c.SmallBlind,
		BigBlind:   c.BigBlind,
		Stack:      c.Stack,
		Logger:     logger,
	})
	stats, err := sim.Run()
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	elapsed := time.Since(start)
	logger.Info("simulation complete", "duration", elapsed.Round(time.Millisecond),
		"hands_per_sec", fmt.Sprintf("%.0f", float64(stats.Hands)/elapsed.Seconds()))

	simulator.PrintSummary(os.Stdout, stats, fmt.Sprintf("%s vs %d %s (seed %d)", c.Hero, c.Seats-1, c.Opponent, seed))

	if c.Output != "" {
		if err := fileutil.WriteJSONAtomic(c.Output, sim.Summary()); err != nil {
			return fmt.Errorf("writing results: %w", err)
		}
		logger.Info("results written", "file", c.Output)
	}
	return nil
}
