package bot

import (
	"math/rand/v2"

	"github.com/lox/holdem-engine/internal/game"
)

// Random picks uniformly among the legal actions, raising to a random size
// between the minimum raise and all-in. Without an rng it checks or calls.
type Random struct{}

// Decide implements Strategy.
func (Random) Decide(s Situation, rng *rand.Rand) Decision {
	toCall := s.ToCall()
	passive := Decision{Action: game.Check, Reasoning: "rand-bot check"}
	if toCall > 0 {
		passive = Decision{Action: game.Call, Reasoning: "rand-bot call"}
	}
	if rng == nil {
		return passive
	}

	options := []Decision{passive}
	if toCall > 0 {
		options = append(options, Decision{Action: game.Fold, Reasoning: "rand-bot fold"})
	}

	allIn := s.Bet + s.Stack
	minRaise := s.CurrentBet + s.MinRaise
	if s.Stack > toCall {
		action := game.Raise
		if s.CurrentBet == 0 {
			action = game.Bet
		}
		amount := allIn
		if minRaise < allIn {
			amount = minRaise + rng.IntN(allIn-minRaise+1)
		}
		options = append(options, Decision{Action: action, Amount: amount, Reasoning: "rand-bot raise"})
	}

	return options[rng.IntN(len(options))]
}
