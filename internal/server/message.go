package server

import "github.com/lox/holdem-engine/internal/game"

// Message types sent to websocket clients.
const (
	MessageTypeState    = "state"
	MessageTypeRejected = "rejected"
	MessageTypeError    = "error"
)

// Message is the envelope for everything written to a client.
type Message struct {
	Type   string         `json:"type"`
	State  *game.Snapshot `json:"state,omitempty"`
	Action string         `json:"action,omitempty"`
	Reason string         `json:"reason,omitempty"`
}

// ActionRequest is an action submitted by a player, over a websocket or
// POST /tables/{id}/actions. PlayerID is taken from the connection for
// websocket clients.
type ActionRequest struct {
	PlayerID string `json:"playerId,omitempty"`
	Action   string `json:"action"`
	Amount   int    `json:"amount,omitempty"`
}

// TableSummary is a row of GET /tables.
type TableSummary struct {
	ID         string      `json:"id"`
	Status     game.Status `json:"status"`
	HandNumber int         `json:"handNumber"`
	Street     game.Street `json:"street"`
	Players    int         `json:"players"`
	SeatsMax   int         `json:"seatsMax"`
	SmallBlind int         `json:"smallBlind"`
	BigBlind   int         `json:"bigBlind"`
}

func stateMessage(s game.Snapshot) *Message {
	return &Message{Type: MessageTypeState, State: &s}
}

func errorMessage(reason string) *Message {
	return &Message{Type: MessageTypeError, Reason: reason}
}
