package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// CLI is the command line of holdem-table. Flags can also be set from the
// environment or a .env file in the working directory.
type CLI struct {
	LogLevel string `short:"l" env:"HOLDEM_LOG_LEVEL" help:"Log level: debug, info, warn or error (overrides config)"`

	Serve    ServeCmd    `cmd:"" default:"withargs" help:"Run the configured tables and the HTTP server"`
	Eval     EvalCmd     `cmd:"" help:"Rank hands against a board"`
	Simulate SimulateCmd `cmd:"" help:"Play bot strategies against each other and report the results"`
}

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem-table"),
		kong.Description("Authoritative Texas Hold'em tables for humans and bots."),
		kong.UsageOnError())

	if err := ctx.Run(&cli); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}
}

// newLogger creates a stderr logger at the named level, defaulting to info.
func newLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", level)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}
