package game

import (
	"fmt"
	"strings"
)

// Street represents the betting round.
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
	// Ended means the hand finished because all but one seat folded.
	Ended
)

var streetNames = [...]string{"preflop", "flop", "turn", "river", "showdown", "ended"}

func (s Street) String() string {
	if s < 0 || int(s) >= len(streetNames) {
		return "unknown"
	}
	return streetNames[s]
}

// MarshalText encodes the street by name.
func (s Street) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a street name.
func (s *Street) UnmarshalText(text []byte) error {
	for i, name := range streetNames {
		if name == string(text) {
			*s = Street(i)
			return nil
		}
	}
	return fmt.Errorf("unknown street %q", text)
}

// communityCards returns how many board cards are visible on the street.
func (s Street) communityCards() int {
	switch s {
	case Preflop:
		return 0
	case Flop:
		return 3
	case Turn:
		return 4
	default:
		return 5
	}
}

// Action represents a player action.
type Action int

const (
	Fold Action = iota
	Check
	Call
	Bet
	Raise
	AllIn
)

var actionNames = [...]string{"fold", "check", "call", "bet", "raise", "allin"}

func (a Action) String() string {
	if !a.Valid() {
		return "unknown"
	}
	return actionNames[a]
}

// Valid reports whether a is one of the defined actions.
func (a Action) Valid() bool {
	return a >= Fold && int(a) < len(actionNames)
}

// MarshalText encodes the action by name.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an action name.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAction parses an action name. "all-in" and "all_in" are accepted for allin.
func ParseAction(s string) (Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "", "_", "").Replace(s)
	for i, name := range actionNames {
		if name == s {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// ActionRecord is the last action applied to the table.
type ActionRecord struct {
	PlayerID string `json:"playerId"`
	Action   Action `json:"action"`
	// Amount is the number of chips moved into the pot by the action.
	Amount int  `json:"amount"`
	Auto   bool `json:"auto,omitempty"`
}
