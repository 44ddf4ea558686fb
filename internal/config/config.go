// Package config loads table definitions from an HCL file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdem-engine/internal/bot"
	"github.com/lox/holdem-engine/internal/engine"
	"github.com/lox/holdem-engine/internal/game"
)

// Config is the complete configuration file.
type Config struct {
	Server *ServerSettings `hcl:"server,block"`
	Timing *TimingSettings `hcl:"timing,block"`
	Tables []TableConfig   `hcl:"table,block"`
}

// ServerSettings configures the HTTP listener and logging.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TimingSettings holds durations in time.ParseDuration syntax, e.g. "25s".
type TimingSettings struct {
	TurnTimeout  string `hcl:"turn_timeout,optional"`
	BotMinDelay  string `hcl:"bot_min_delay,optional"`
	BotMaxDelay  string `hcl:"bot_max_delay,optional"`
	RestartDelay string `hcl:"restart_delay,optional"`
}

// TableConfig defines one table and its starting seats.
type TableConfig struct {
	ID         string       `hcl:"id,label"`
	MaxSeats   int          `hcl:"max_seats,optional"`
	SmallBlind int          `hcl:"small_blind"`
	BigBlind   int          `hcl:"big_blind"`
	Seed       int64        `hcl:"seed,optional"`
	Strategy   string       `hcl:"strategy,optional"`
	Seats      []SeatConfig `hcl:"seat,block"`
}

// SeatConfig is a player seated when the table opens.
type SeatConfig struct {
	ID    string `hcl:"id,label"`
	Name  string `hcl:"name,optional"`
	Stack int    `hcl:"stack,optional"`
	Bot   bool   `hcl:"bot,optional"`
}

// Default returns a single six-seat table with three bots.
func Default() *Config {
	cfg := &Config{
		Tables: []TableConfig{{
			ID:         "main",
			SmallBlind: 5,
			BigBlind:   10,
			Seats: []SeatConfig{
				{ID: "bot-1", Bot: true},
				{ID: "bot-2", Bot: true},
				{ID: "bot-3", Bot: true},
			},
		}},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads filename. A missing file yields the default configuration.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and fills in defaults.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	if c.Timing == nil {
		c.Timing = &TimingSettings{}
	}
	def := engine.DefaultConfig()
	setDuration(&c.Timing.TurnTimeout, def.TurnTimeout)
	setDuration(&c.Timing.BotMinDelay, def.BotMinDelay)
	setDuration(&c.Timing.BotMaxDelay, def.BotMaxDelay)
	setDuration(&c.Timing.RestartDelay, def.RestartDelay)

	for i := range c.Tables {
		t := &c.Tables[i]
		if t.MaxSeats == 0 {
			t.MaxSeats = 6
		}
		if t.Strategy == "" {
			t.Strategy = "heuristic"
		}
		for j := range t.Seats {
			s := &t.Seats[j]
			if s.Name == "" {
				s.Name = s.ID
			}
			if s.Stack == 0 {
				s.Stack = t.BigBlind * 100
			}
		}
	}
}

func setDuration(field *string, d time.Duration) {
	if *field == "" {
		*field = d.String()
	}
}

// Engine converts the timing block to engine.Config.
func (t *TimingSettings) Engine() (engine.Config, error) {
	var cfg engine.Config
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"turn_timeout", t.TurnTimeout, &cfg.TurnTimeout},
		{"bot_min_delay", t.BotMinDelay, &cfg.BotMinDelay},
		{"bot_max_delay", t.BotMaxDelay, &cfg.BotMaxDelay},
		{"restart_delay", t.RestartDelay, &cfg.RestartDelay},
	}
	for _, f := range fields {
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return engine.Config{}, fmt.Errorf("timing %s: %w", f.name, err)
		}
		*f.dst = d
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := c.Timing.Engine(); err != nil {
		return err
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	seen := make(map[string]bool)
	for _, t := range c.Tables {
		if seen[t.ID] {
			return fmt.Errorf("duplicate table %q", t.ID)
		}
		seen[t.ID] = true
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a single table definition.
func (t TableConfig) Validate() error {
	switch {
	case t.SmallBlind <= 0:
		return fmt.Errorf("table %s: small blind must be positive", t.ID)
	case t.BigBlind < t.SmallBlind:
		return fmt.Errorf("table %s: big blind must be at least the small blind", t.ID)
	case t.MaxSeats < 2 || t.MaxSeats > 10:
		return fmt.Errorf("table %s: max seats must be between 2 and 10", t.ID)
	case len(t.Seats) > t.MaxSeats:
		return fmt.Errorf("table %s: %d seats configured but only %d allowed", t.ID, len(t.Seats), t.MaxSeats)
	}
	if _, err := bot.ByName(t.Strategy); err != nil {
		return fmt.Errorf("table %s: %w", t.ID, err)
	}

	ids := make(map[string]bool)
	for _, s := range t.Seats {
		if ids[s.ID] {
			return fmt.Errorf("table %s: duplicate seat %q", t.ID, s.ID)
		}
		ids[s.ID] = true
		if s.Stack < 0 {
			return fmt.Errorf("table %s: seat %s has negative stack", t.ID, s.ID)
		}
	}
	return nil
}

// Room builds the room described by the table.
func (t TableConfig) Room() (*game.Room, error) {
	room := game.NewRoom(t.ID, t.MaxSeats, t.SmallBlind, t.BigBlind)
	for _, s := range t.Seats {
		if _, err := room.AddSeat(s.ID, s.Name, s.Stack, s.Bot); err != nil {
			return nil, fmt.Errorf("table %s: %w", t.ID, err)
		}
	}
	return room, nil
}

// Address returns host:port for the HTTP listener.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// Table returns the table with the given id, or nil.
func (c *Config) Table(id string) *TableConfig {
	for i := range c.Tables {
		if c.Tables[i].ID == id {
			return &c.Tables[i]
		}
	}
	return nil
}
