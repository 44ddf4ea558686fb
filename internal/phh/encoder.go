package phh

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/poker"
)

// Encode writes the hand history to w in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeToBytes encodes and returns the result as bytes.
func EncodeToBytes(hand *HandHistory) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, hand); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatAction converts a table action by the player at index (0-based, in
// PHH order) to a PHH action string. totalBet is the player's whole street
// contribution after the action. All-ins that do not raise are calls.
func FormatAction(player int, action game.Action, totalBet int, raised bool) string {
	p := fmt.Sprintf("p%d", player+1)
	switch action {
	case game.Fold:
		return p + " f"
	case game.Check, game.Call:
		return p + " cc"
	case game.AllIn:
		if !raised {
			return p + " cc"
		}
	}
	return fmt.Sprintf("%s cbr %d", p, totalBet)
}

// FormatCards joins cards without spaces, e.g. "AhKh". Unknown cards are "??".
func FormatCards(cards []poker.Card, n int) string {
	if len(cards) == 0 {
		return strings.Repeat("??", n)
	}
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(c.String())
	}
	return b.String()
}
