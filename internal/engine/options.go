package engine

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-engine/internal/bot"
	"github.com/lox/holdem-engine/internal/game"
)

// Config holds the engine timings.
type Config struct {
	// TurnTimeout is how long a human seat has before it is auto-folded, or
	// auto-checked when there is nothing to call.
	TurnTimeout time.Duration
	// BotMinDelay and BotMaxDelay bound the randomised bot think time.
	BotMinDelay time.Duration
	BotMaxDelay time.Duration
	// RestartDelay is the pause between the end of a hand and the next deal.
	RestartDelay time.Duration
}

// DefaultConfig returns the standard table timings.
func DefaultConfig() Config {
	return Config{
		TurnTimeout:  25 * time.Second,
		BotMinDelay:  1 * time.Second,
		BotMaxDelay:  3 * time.Second,
		RestartDelay: 5 * time.Second,
	}
}

// Validate checks the timings are usable.
func (c Config) Validate() error {
	switch {
	case c.TurnTimeout <= 0:
		return fmt.Errorf("turn timeout must be positive, got %s", c.TurnTimeout)
	case c.BotMinDelay < 0:
		return fmt.Errorf("bot min delay must not be negative, got %s", c.BotMinDelay)
	case c.BotMaxDelay < c.BotMinDelay:
		return fmt.Errorf("bot max delay %s is below min delay %s", c.BotMaxDelay, c.BotMinDelay)
	case c.RestartDelay < 0:
		return fmt.Errorf("restart delay must not be negative, got %s", c.RestartDelay)
	}
	return nil
}

// Option configures an Engine.
type Option func(*Engine)

// WithPayout registers the payout hook.
func WithPayout(fn PayoutFunc) Option {
	return func(e *Engine) {
		e.payout = fn
	}
}

// WithClock sets the clock used for every timer. Tests pass a quartz.Mock.
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithRNG sets the random source for shuffling, bot decisions and think delays.
func WithRNG(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithStrategy sets the strategy that plays bot seats.
func WithStrategy(s bot.Strategy) Option {
	return func(e *Engine) {
		e.strategy = s
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithConfig sets the timings.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithTableOptions passes options through to the game.Table, for example a
// scripted deck source.
func WithTableOptions(opts ...game.TableOption) Option {
	return func(e *Engine) {
		e.tableOpts = append(e.tableOpts, opts...)
	}
}
