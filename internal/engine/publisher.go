package engine

import "github.com/lox/holdem-engine/internal/game"

// Publisher receives a full table snapshot after every state change.
// Publish is called from the engine goroutine and must not block or call
// back into the engine. Snapshots carry every hole card; transports filter
// them with Snapshot.ForViewer.
type Publisher interface {
	Publish(game.Snapshot)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(game.Snapshot)

// Publish implements Publisher.
func (f PublisherFunc) Publish(s game.Snapshot) {
	f(s)
}

// MultiPublisher fans a snapshot out to several publishers in order.
type MultiPublisher []Publisher

// Publish implements Publisher.
func (m MultiPublisher) Publish(s game.Snapshot) {
	for _, p := range m {
		if p != nil {
			p.Publish(s)
		}
	}
}

// PayoutFunc is notified once per finished hand so an external ledger can
// mirror the stack changes.
type PayoutFunc func(game.Payout)
