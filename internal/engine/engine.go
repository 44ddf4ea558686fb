// Package engine drives a game.Table in real time: it schedules turns, auto
// acts for bots and idle players, publishes snapshots and deals the next hand.
//
// Each Engine runs a single goroutine that owns its table. Public methods hand
// work to that goroutine and wait for the result, and timers are received in
// the same loop, so no two mutations ever interleave.
package engine

import (
	"errors"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-engine/internal/bot"
	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/internal/randutil"
)

// ErrDestroyed is returned by every method once Destroy has been called.
var ErrDestroyed = errors.New("engine destroyed")

// Engine runs hands for one room.
type Engine struct {
	pub       Publisher
	payout    PayoutFunc
	clock     quartz.Clock
	rng       *rand.Rand
	strategy  bot.Strategy
	logger    *log.Logger
	cfg       Config
	tableOpts []game.TableOption

	requests chan func()
	done     chan struct{}
	stopped  chan struct{}
	destroy  sync.Once

	// Owned by the run goroutine.
	table        *game.Table
	turnTimer    *quartz.Timer
	turnFor      string
	turnDeadline time.Time
	restartTimer *quartz.Timer
}

// New creates an engine for room and starts its goroutine. The engine becomes
// the room's only writer; callers must not touch it afterwards. No hand is
// dealt until StartHand is called.
func New(room *game.Room, pub Publisher, opts ...Option) *Engine {
	e := &Engine{
		pub:      pub,
		cfg:      DefaultConfig(),
		requests: make(chan func()),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.pub == nil {
		e.pub = PublisherFunc(func(game.Snapshot) {})
	}
	if e.clock == nil {
		e.clock = quartz.NewReal()
	}
	if e.rng == nil {
		e.rng = randutil.New(randutil.Seed(0))
	}
	if e.strategy == nil {
		e.strategy = bot.Heuristic{}
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	e.logger = e.logger.WithPrefix("engine").With("room", room.ID)

	tableOpts := append([]game.TableOption{
		game.WithRNG(randutil.Child(e.rng)),
		game.WithLogger(e.logger),
	}, e.tableOpts...)
	e.table = game.NewTable(room, tableOpts...)

	go e.run()
	return e
}

func (e *Engine) run() {
	defer close(e.stopped)
	defer e.stopTimers()

	for {
		var turnC, restartC <-chan time.Time
		if e.turnTimer != nil {
			turnC = e.turnTimer.C
		}
		if e.restartTimer != nil {
			restartC = e.restartTimer.C
		}

		select {
		case <-e.done:
			return
		case fn := <-e.requests:
			fn()
		case <-turnC:
			e.turnTimer = nil
			e.onTurnTimeout()
		case <-restartC:
			e.restartTimer = nil
			if err := e.startHand(); err != nil {
				e.logger.Info("not dealing next hand", "err", err)
			}
		}
	}
}

// do runs fn on the engine goroutine and waits for it to finish.
func (e *Engine) do(fn func()) error {
	finished := make(chan struct{})
	select {
	case e.requests <- func() {
		defer close(finished)
		fn()
	}:
	case <-e.done:
		return ErrDestroyed
	}
	<-finished
	return nil
}

// StartHand deals a new hand immediately, cancelling any pending restart.
func (e *Engine) StartHand() error {
	var err error
	if derr := e.do(func() { err = e.startHand() }); derr != nil {
		return derr
	}
	return err
}

// ApplyAction applies a player's action. Rejected actions return a
// *game.RejectedError and leave the table and its turn timer untouched.
func (e *Engine) ApplyAction(playerID string, action game.Action, amount int) error {
	var err error
	if derr := e.do(func() { err = e.applyAction(playerID, action, amount) }); derr != nil {
		return derr
	}
	return err
}

// Snapshot returns the current table state with every hole card visible.
func (e *Engine) Snapshot() (game.Snapshot, error) {
	var snap game.Snapshot
	err := e.do(func() { snap = e.snapshot() })
	return snap, err
}

// AddPlayer seats a player. A player joining mid-hand is dealt in from the next hand.
func (e *Engine) AddPlayer(id, name string, stack int, isBot bool) error {
	var err error
	if derr := e.do(func() {
		if _, err = e.table.Room.AddSeat(id, name, stack, isBot); err == nil {
			e.logger.Info("player seated", "player", id, "stack", stack, "bot", isBot)
			e.publish()
		}
	}); derr != nil {
		return derr
	}
	return err
}

// RemovePlayer unseats a player between hands.
func (e *Engine) RemovePlayer(id string) error {
	var err error
	if derr := e.do(func() {
		if err = e.table.Leave(id); err == nil {
			e.logger.Info("player left", "player", id)
			e.publish()
		}
	}); derr != nil {
		return derr
	}
	return err
}

// Destroy stops every timer and the engine goroutine. It is safe to call more than once.
func (e *Engine) Destroy() {
	e.destroy.Do(func() { close(e.done) })
	<-e.stopped
}

// Done is closed once the engine has stopped.
func (e *Engine) Done() <-chan struct{} {
	return e.stopped
}

func (e *Engine) startHand() error {
	if e.table.InHand() {
		return game.ErrHandInProgress
	}
	e.stopTimer(&e.restartTimer)
	e.cancelTurn()

	if err := e.table.StartHand(); err != nil {
		e.logger.Warn("cannot start hand", "err", err)
		e.publish()
		return err
	}

	room := e.table.Room
	sb, bb := e.table.BlindSeats()
	e.logger.Info("hand started",
		"hand", room.HandNumber,
		"hand_id", e.table.HandID,
		"dealer", room.DealerPos,
		"small_blind", room.Seats[sb].ID,
		"big_blind", room.Seats[bb].ID)

	e.afterChange()
	return nil
}

func (e *Engine) applyAction(playerID string, action game.Action, amount int) error {
	if err := e.table.Apply(playerID, action, amount); err != nil {
		e.logger.Debug("action rejected", "player", playerID, "action", action, "amount", amount, "err", err)
		return err
	}
	e.logger.Debug("action", "player", playerID, "action", action, "amount", amount,
		"street", e.table.Street, "pot", e.table.Pot)
	e.afterChange()
	return nil
}

// afterChange schedules whatever comes next and publishes the new state.
func (e *Engine) afterChange() {
	if !e.table.InHand() {
		e.endHand()
		return
	}
	e.scheduleTurn()
	e.publish()
}

// scheduleTurn replaces the turn timer with one for the seat to act.
func (e *Engine) scheduleTurn() {
	e.cancelTurn()
	seat := e.table.ToActSeat()
	if seat == nil {
		return
	}

	d := e.cfg.TurnTimeout
	if seat.IsBot {
		d = e.botDelay()
	} else {
		e.turnDeadline = e.clock.Now().Add(d)
	}
	e.turnFor = seat.ID
	e.turnTimer = e.clock.NewTimer(d, "engine", "turn")
}

func (e *Engine) botDelay() time.Duration {
	spread := e.cfg.BotMaxDelay - e.cfg.BotMinDelay
	if spread <= 0 {
		return e.cfg.BotMinDelay
	}
	return e.cfg.BotMinDelay + time.Duration(e.rng.Int64N(int64(spread)+1))
}

func (e *Engine) cancelTurn() {
	e.stopTimer(&e.turnTimer)
	e.turnFor = ""
	e.turnDeadline = time.Time{}
}

func (e *Engine) stopTimer(t **quartz.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}

func (e *Engine) stopTimers() {
	e.cancelTurn()
	e.stopTimer(&e.restartTimer)
}

// onTurnTimeout acts for the seat whose timer fired: bots decide, humans
// are folded or checked.
func (e *Engine) onTurnTimeout() {
	seat := e.table.ToActSeat()
	if seat == nil || seat.ID != e.turnFor {
		e.logger.Error("turn timer fired for wrong seat", "timer", e.turnFor, "to_act", e.table.ToAct)
		return
	}
	e.turnFor = ""

	situation := bot.SituationFor(e.table, seat)
	fallback := bot.FallbackAction(situation)
	action, amount := fallback, 0
	if seat.IsBot {
		d := e.strategy.Decide(situation, e.rng)
		action, amount = d.Action, d.Amount
		e.logger.Debug("bot decision", "player", seat.ID, "decision", d, "reasoning", d.Reasoning)
	} else {
		e.logger.Info("turn timed out", "player", seat.ID, "action", fallback)
	}

	err := e.table.Apply(seat.ID, action, amount)
	if err != nil && action != fallback {
		e.logger.Warn("bot action rejected, falling back", "player", seat.ID, "action", action, "err", err)
		err = e.table.Apply(seat.ID, fallback, 0)
	}
	if err != nil {
		e.logger.Error("automatic action rejected", "player", seat.ID, "action", fallback, "err", err)
		return
	}
	if !seat.IsBot && e.table.LastAction != nil {
		e.table.LastAction.Auto = true
	}
	e.afterChange()
}

// endHand reports the payout, publishes the final state and schedules the next deal.
func (e *Engine) endHand() {
	e.cancelTurn()
	room := e.table.Room

	if res := e.table.Result; res != nil {
		e.logger.Info("hand complete",
			"hand", res.Payout.HandNumber,
			"winners", res.Payout.WinnerIDs,
			"amount_each", res.Payout.AmountEach,
			"showdown", res.Showdown)
		if e.payout != nil {
			e.safely("payout", func() { e.payout(res.Payout) })
		}
	}
	e.publish()

	if room.FundedSeats() < 2 {
		e.logger.Info("waiting for players", "funded", room.FundedSeats())
		return
	}
	e.restartTimer = e.clock.NewTimer(e.cfg.RestartDelay, "engine", "restart")
}

func (e *Engine) snapshot() game.Snapshot {
	snap := e.table.Snapshot()
	snap.UpdatedAt = e.clock.Now()
	if !e.turnDeadline.IsZero() {
		deadline := e.turnDeadline
		snap.TurnDeadline = &deadline
	}
	return snap
}

func (e *Engine) publish() {
	snap := e.snapshot()
	e.safely("publish", func() { e.pub.Publish(snap) })
}

// safely runs a hook and logs a panic instead of killing the engine.
func (e *Engine) safely(hook string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("hook panicked", "hook", hook, "panic", r)
		}
	}()
	fn()
}
