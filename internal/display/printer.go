package display

import (
	"fmt"
	"io"
	"sync"

	"github.com/lox/holdem-engine/internal/game"
)

// Printer writes a line per state change and the full table when a hand ends.
// Its Publish method satisfies engine.Publisher.
type Printer struct {
	mu       sync.Mutex
	w        io.Writer
	r        *Renderer
	viewer   string
	lastHand int
}

// NewPrinter creates a printer showing the table as seen by viewer. An empty
// viewer sees only showdown hands.
func NewPrinter(w io.Writer, r *Renderer, viewer string) *Printer {
	return &Printer{w: w, r: r, viewer: viewer}
}

// Publish renders the snapshot.
func (p *Printer) Publish(s game.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s = s.ForViewer(p.viewer)
	if s.Result != nil && s.HandNumber != p.lastHand {
		p.lastHand = s.HandNumber
		fmt.Fprintln(p.w, p.r.Table(s))
		return
	}
	fmt.Fprintln(p.w, p.r.Summary(s))
}
