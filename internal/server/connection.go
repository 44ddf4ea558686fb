package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/holdem-engine/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	sendBuffer = 64
)

// Connection is a websocket client watching one table, optionally as a player.
type Connection struct {
	conn     *websocket.Conn
	send     chan *Message
	playerID string
	hub      *Hub
	logger   *log.Logger
	ctx      context.Context
	cancel   context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewConnection wraps conn for a client of hub. An empty playerID is a spectator.
func NewConnection(conn *websocket.Conn, hub *Hub, playerID string, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:     conn,
		send:     make(chan *Message, sendBuffer),
		playerID: playerID,
		hub:      hub,
		logger:   logger.WithPrefix("conn").With("table", hub.ID(), "player", playerID),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// PlayerID returns the player this connection acts for.
func (c *Connection) PlayerID() string {
	return c.playerID
}

// Start joins the hub and begins pumping messages.
func (c *Connection) Start() {
	go c.writePump()
	c.hub.join(c)
	go c.readPump()
}

// Close closes the connection. It is safe to call more than once.
func (c *Connection) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.cancel()
	close(c.send)
	c.mu.Unlock()
	return c.conn.Close()
}

// SendMessage queues msg for the client without blocking. A client whose
// buffer is full is disconnected.
func (c *Connection) SendMessage(msg *Message) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	select {
	case c.send <- msg:
		c.mu.Unlock()
		return true
	default:
	}
	c.mu.Unlock()

	c.logger.Warn("send buffer full, closing connection")
	_ = c.Close()
	return false
}

// readPump reads action requests until the client goes away.
func (c *Connection) readPump() {
	defer func() {
		c.hub.leave(c)
		_ = c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var req ActionRequest
		if err := c.conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read failed", "err", err)
			}
			return
		}
		c.handleAction(req)
	}
}

// writePump writes queued messages and keeps the connection alive with pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debug("write failed", "err", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Connection) handleAction(req ActionRequest) {
	if c.playerID == "" {
		c.SendMessage(errorMessage("spectators cannot act"))
		return
	}
	if msg := applyAction(c.hub, c.playerID, req); msg != nil {
		c.SendMessage(msg)
	}
}

// applyAction submits req for playerID and returns the reply to send, or nil
// when the action was accepted.
func applyAction(hub *Hub, playerID string, req ActionRequest) *Message {
	action, err := game.ParseAction(req.Action)
	if err != nil {
		return errorMessage(err.Error())
	}
	table := hub.engine()
	if table == nil {
		return errorMessage(errNoTable.Error())
	}

	err = table.ApplyAction(playerID, action, req.Amount)
	var rej *game.RejectedError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &rej):
		return &Message{Type: MessageTypeRejected, Action: action.String(), Reason: rej.Reason.Error()}
	default:
		return errorMessage(err.Error())
	}
}
