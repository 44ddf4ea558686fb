package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-engine/internal/bot"
	"github.com/lox/holdem-engine/internal/config"
	"github.com/lox/holdem-engine/internal/display"
	"github.com/lox/holdem-engine/internal/engine"
	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/internal/randutil"
	"github.com/lox/holdem-engine/internal/server"
)

// ServeCmd runs every configured table until interrupted.
type ServeCmd struct {
	Config string `short:"c" env:"HOLDEM_CONFIG" default:"holdem.hcl" help:"Path to HCL configuration file"`
	Addr   string `short:"a" env:"HOLDEM_ADDR" help:"Address to listen on, host:port (overrides config)"`
	Watch  string `short:"w" help:"Print every change at this table to stdout"`
}

func (s *ServeCmd) Run(cli *CLI) error {
	cfg, err := config.Load(s.Config)
	if err != nil {
		return err
	}
	if err := s.applyOverrides(cfg, cli); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if s.Watch != "" && cfg.Table(s.Watch) == nil {
		return fmt.Errorf("cannot watch unknown table %q", s.Watch)
	}

	logger := newLogger(cfg.Server.LogLevel)
	timing, err := cfg.Timing.Engine()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(logger)
	engines := make([]*engine.Engine, 0, len(cfg.Tables))
	for _, tc := range cfg.Tables {
		eng, err := s.openTable(tc, timing, srv, logger)
		if err != nil {
			for _, e := range engines {
				e.Destroy()
			}
			return err
		}
		engines = append(engines, eng)
	}

	logger.Info("starting holdem tables", "addr", cfg.Address(), "tables", len(engines))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx, cfg.Address())
	})
	for _, eng := range engines {
		g.Go(func() error {
			defer eng.Destroy()
			if err := eng.StartHand(); err != nil && !errors.Is(err, game.ErrNotEnoughPlayers) {
				return err
			}
			<-gctx.Done()
			return nil
		})
	}

	err = g.Wait()
	for id, sum := range srv.Stats() {
		logger.Info("table results", "table", id, "hands", sum.Hands, "balanced", sum.Balanced)
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("stopped")
	return nil
}

func (s *ServeCmd) applyOverrides(cfg *config.Config, cli *CLI) error {
	if cli.LogLevel != "" {
		cfg.Server.LogLevel = cli.LogLevel
	}
	if s.Addr != "" {
		host, port, err := net.SplitHostPort(s.Addr)
		if err != nil {
			return fmt.Errorf("invalid address %q: %w", s.Addr, err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid port %q: %w", port, err)
		}
		cfg.Server.Address, cfg.Server.Port = host, p
	}
	return nil
}

// openTable builds the engine for one configured table and registers it
// with the server.
func (s *ServeCmd) openTable(tc config.TableConfig, timing engine.Config, srv *server.Server, logger *log.Logger) (*engine.Engine, error) {
	room, err := tc.Room()
	if err != nil {
		return nil, err
	}
	strategy, err := bot.ByName(tc.Strategy)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", tc.ID, err)
	}

	seed := randutil.Seed(tc.Seed)
	tableLogger := logger.With("table", tc.ID)

	hub := server.NewHub(tc.ID, logger)
	pubs := engine.MultiPublisher{hub}
	if s.Watch == tc.ID {
		pubs = append(pubs, display.NewPrinter(os.Stdout, display.New(os.Stdout), ""))
	}

	eng := engine.New(room, pubs,
		engine.WithConfig(timing),
		engine.WithRNG(randutil.New(seed)),
		engine.WithStrategy(strategy),
		engine.WithLogger(tableLogger),
		engine.WithPayout(func(p game.Payout) {
			tableLogger.Info("payout",
				"hand", p.HandNumber,
				"hand_id", p.HandID,
				"winners", p.WinnerIDs,
				"each", p.AmountEach,
				"pot", p.Pot)
		}))
	srv.Register(hub, eng)

	tableLogger.Info("table open",
		"seed", seed,
		"stakes", fmt.Sprintf("%d/%d", tc.SmallBlind, tc.BigBlind),
		"seats", len(tc.Seats),
		"strategy", tc.Strategy)
	return eng, nil
}
