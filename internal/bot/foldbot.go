package bot

import (
	"math/rand/v2"

	"github.com/lox/holdem-engine/internal/game"
)

// Folder checks when it can and folds to any bet.
type Folder struct{}

// Decide implements Strategy.
func (Folder) Decide(s Situation, _ *rand.Rand) Decision {
	if s.ToCall() == 0 {
		return Decision{Action: game.Check, Reasoning: "fold-bot checking"}
	}
	return Decision{Action: game.Fold, Reasoning: "fold-bot folding"}
}
