package server

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/internal/phh"
	"github.com/lox/holdem-engine/internal/statistics"
)

// Table is the part of an engine the server drives.
type Table interface {
	ApplyAction(playerID string, action game.Action, amount int) error
	Snapshot() (game.Snapshot, error)
}

// Hub fans table snapshots out to the websocket clients watching one table.
// It implements engine.Publisher: each client receives the snapshot as seen
// by its own player. Every snapshot also feeds the table's statistics and
// the public history of the last finished hand.
type Hub struct {
	id       string
	logger   *log.Logger
	stats    *statistics.Tracker
	recorder *phh.Recorder

	mu      sync.Mutex
	table   Table
	last    *game.Snapshot
	history []byte
	clients map[*Connection]struct{}
}

// NewHub creates a hub for the table with the given id.
func NewHub(id string, logger *log.Logger) *Hub {
	h := &Hub{
		id:      id,
		logger:  logger.WithPrefix("hub").With("table", id),
		stats:   statistics.NewTracker(),
		clients: make(map[*Connection]struct{}),
	}
	h.recorder = phh.NewRecorder(id, h.recordHistory)
	return h
}

// ID returns the table id.
func (h *Hub) ID() string {
	return h.id
}

// Stats returns the table's statistics.
func (h *Hub) Stats() *statistics.Tracker {
	return h.stats
}

// Publish stores the snapshot and sends a filtered copy to every client.
// Slow clients are disconnected rather than blocking the engine.
func (h *Hub) Publish(s game.Snapshot) {
	h.stats.Publish(s)
	h.recorder.Publish(s.Public())

	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = &s
	for c := range h.clients {
		c.SendMessage(stateMessage(s.ForViewer(c.PlayerID())))
	}
}

// Latest returns the most recent snapshot, asking the table if nothing has
// been published yet.
func (h *Hub) Latest() (game.Snapshot, error) {
	h.mu.Lock()
	last, table := h.last, h.table
	h.mu.Unlock()

	if last != nil {
		return *last, nil
	}
	if table == nil {
		return game.Snapshot{}, errNoTable
	}
	return table.Snapshot()
}

// LastHand returns the last finished hand in PHH format. Hole cards that
// were not shown at showdown are written as unknown.
func (h *Hub) LastHand() ([]byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.history, h.history != nil
}

func (h *Hub) recordHistory(hand *phh.HandHistory) {
	data, err := phh.EncodeToBytes(hand)
	if err != nil {
		h.logger.Error("failed to encode hand history", "hand", hand.HandNumber, "err", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.history = data
}

func (h *Hub) attach(t Table) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.table = t
}

func (h *Hub) engine() Table {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.table
}

// join registers c and sends it the current state.
func (h *Hub) join(c *Connection) {
	snap, err := h.Latest()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	if h.last != nil {
		snap, err = *h.last, nil
	}
	if err != nil {
		c.SendMessage(errorMessage(err.Error()))
		return
	}
	c.SendMessage(stateMessage(snap.ForViewer(c.PlayerID())))
	h.logger.Debug("client joined", "player", c.PlayerID(), "clients", len(h.clients))
}

func (h *Hub) leave(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		h.logger.Debug("client left", "player", c.PlayerID(), "clients", len(h.clients))
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// closeAll disconnects every client.
func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := make([]*Connection, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		_ = c.Close()
	}
}
