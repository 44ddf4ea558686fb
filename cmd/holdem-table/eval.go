package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/lox/holdem-engine/internal/display"
	"github.com/lox/holdem-engine/poker"
)

// EvalCmd ranks each player's best five cards against a full board.
type EvalCmd struct {
	Hands []string `arg:"" help:"Hole cards per player, e.g. 'AcKd' 'QhJs'"`
	Board string   `short:"b" required:"" help:"Five community cards, e.g. 'Td7s8h2c3d'"`
}

type evalResult struct {
	hole   []poker.Card
	best   []poker.Card
	rank   poker.HandRank
	winner bool
}

func (e *EvalCmd) Run() error {
	hands, err := parseHands(e.Hands)
	if err != nil {
		return err
	}
	board, err := poker.ParseCards(e.Board)
	if err != nil {
		return fmt.Errorf("parsing board: %w", err)
	}
	if len(board) != 5 {
		return fmt.Errorf("board must have exactly 5 cards, got %d", len(board))
	}
	if err := validateNoDuplicates(hands, board); err != nil {
		return err
	}

	results, err := evaluate(hands, board)
	if err != nil {
		return err
	}
	printResults(os.Stdout, display.New(os.Stdout), board, results)
	return nil
}

func parseHands(handStrings []string) ([][]poker.Card, error) {
	if len(handStrings) == 0 {
		return nil, errors.New("at least one hand is required")
	}
	hands := make([][]poker.Card, 0, len(handStrings))
	for i, s := range handStrings {
		cards, err := poker.ParseCards(s)
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i+1, err)
		}
		if len(cards) != 2 {
			return nil, fmt.Errorf("hand %d must have exactly 2 cards, got %d", i+1, len(cards))
		}
		hands = append(hands, cards)
	}
	return hands, nil
}

func validateNoDuplicates(hands [][]poker.Card, board []poker.Card) error {
	seen := make(map[poker.Card]bool)
	check := func(c poker.Card) error {
		if seen[c] {
			return fmt.Errorf("duplicate card: %s", c)
		}
		seen[c] = true
		return nil
	}
	for _, hand := range hands {
		for _, c := range hand {
			if err := check(c); err != nil {
				return err
			}
		}
	}
	for _, c := range board {
		if err := check(c); err != nil {
			return err
		}
	}
	return nil
}

// evaluate finds each hand's best five cards and marks the winners.
func evaluate(hands [][]poker.Card, board []poker.Card) ([]evalResult, error) {
	results := make([]evalResult, len(hands))
	best := poker.InvalidRank
	for i, hole := range hands {
		cards := append(append([]poker.Card{}, hole...), board...)
		five, rank, err := poker.BestHand(cards)
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i+1, err)
		}
		results[i] = evalResult{hole: hole, best: five, rank: rank}
		if rank.Beats(best) {
			best = rank
		}
	}
	for i := range results {
		results[i].winner = poker.CompareRanks(results[i].rank, best) == 0
	}
	return results, nil
}

func printResults(w io.Writer, r *display.Renderer, board []poker.Card, results []evalResult) {
	fmt.Fprintf(w, "Board: %s\n\n", r.Cards(board))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "HAND\tBEST FIVE\tRANK\t")
	for _, res := range results {
		mark := ""
		if res.winner {
			mark = "winner"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", poker.FormatCards(res.hole), poker.FormatCards(res.best), res.rank, mark)
	}
	_ = tw.Flush()
}
