package bot

import (
	"math/rand/v2"

	"github.com/lox/holdem-engine/internal/game"
)

// Passive checks when it can and calls anything else. It never folds or raises.
type Passive struct{}

// Decide implements Strategy.
func (Passive) Decide(s Situation, _ *rand.Rand) Decision {
	if s.ToCall() == 0 {
		return Decision{Action: game.Check, Reasoning: "passive check"}
	}
	return Decision{Action: game.Call, Reasoning: "passive call"}
}
