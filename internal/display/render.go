// Package display renders table snapshots as text for terminals and logs.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/poker"
)

// Styles contains all styling for rendered tables.
type Styles struct {
	Border    lipgloss.Style
	Header    lipgloss.Style
	ToAct     lipgloss.Style
	Folded    lipgloss.Style
	RedCard   lipgloss.Style
	BlackCard lipgloss.Style
	Winner    lipgloss.Style
	Info      lipgloss.Style
}

// Renderer renders snapshots with a fixed color profile.
type Renderer struct {
	styles Styles
}

// New creates a renderer for w. The color profile is detected from w unless
// overridden, e.g. termenv.WithProfile(termenv.Ascii).
func New(w io.Writer, opts ...termenv.OutputOption) *Renderer {
	r := lipgloss.NewRenderer(w, opts...)
	return &Renderer{styles: Styles{
		Border: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")).
			Padding(0, 1),
		Header: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true),
		ToAct: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Folded: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		RedCard: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		BlackCard: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true),
		Winner: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Info: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
	}}
}

// Plain returns a renderer that never emits escape codes.
func Plain() *Renderer {
	return New(io.Discard, termenv.WithProfile(termenv.Ascii))
}

// Card renders a single card with its suit symbol.
func (r *Renderer) Card(c poker.Card) string {
	if c.Suit.IsRed() {
		return r.styles.RedCard.Render(c.Symbol())
	}
	return r.styles.BlackCard.Render(c.Symbol())
}

// Cards renders cards separated by spaces, or "--" when there are none.
func (r *Renderer) Cards(cards []poker.Card) string {
	if len(cards) == 0 {
		return "--"
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = r.Card(c)
	}
	return strings.Join(parts, " ")
}

// Table renders the whole table inside a border.
func (r *Renderer) Table(s game.Snapshot) string {
	var b strings.Builder

	header := fmt.Sprintf("%s  hand #%d  %s", s.RoomID, s.HandNumber, s.Street)
	fmt.Fprintln(&b, r.styles.Header.Render(header))
	fmt.Fprintf(&b, "Board: %s   Pot: %d   Blinds: %d/%d\n",
		r.Cards(s.Community), s.Pot, s.SmallBlind, s.BigBlind)

	for _, seat := range s.Seats {
		fmt.Fprintln(&b, r.seatLine(s, seat))
	}

	if s.Result != nil {
		fmt.Fprint(&b, r.Result(s.Result))
	}

	return r.styles.Border.Render(strings.TrimRight(b.String(), "\n"))
}

func (r *Renderer) seatLine(s game.Snapshot, seat game.SeatView) string {
	marker := "  "
	if seat.SeatIndex == s.DealerPos {
		marker = "D "
	}

	var flags []string
	switch {
	case seat.SittingOut:
		flags = append(flags, "sitting out")
	case seat.Folded:
		flags = append(flags, "folded")
	case seat.IsAllIn:
		flags = append(flags, "all-in")
	}
	if seat.IsBot {
		flags = append(flags, "bot")
	}

	line := fmt.Sprintf("%s%-12s %6d  bet %-5d %s", marker, seat.Name, seat.Stack, seat.Bet, r.Cards(seat.Hand))
	if len(flags) > 0 {
		line += " " + r.styles.Info.Render("("+strings.Join(flags, ", ")+")")
	}

	switch {
	case seat.ID == s.ToAct:
		return r.styles.ToAct.Render("> ") + line
	case seat.Folded:
		return "  " + r.styles.Folded.Render(line)
	default:
		return "  " + line
	}
}

// Result renders the winners of a finished hand.
func (r *Renderer) Result(res *game.Result) string {
	var b strings.Builder
	for _, h := range res.Hands {
		fmt.Fprintf(&b, "%s shows %s (%s)\n", h.PlayerID, r.Cards(h.Cards), h.Description)
	}
	p := res.Payout
	line := fmt.Sprintf("%s win %d each", strings.Join(p.WinnerIDs, ", "), p.AmountEach)
	if len(p.WinnerIDs) == 1 {
		line = fmt.Sprintf("%s wins %d", p.WinnerIDs[0], p.AmountEach)
	}
	if p.Remainder > 0 {
		line += fmt.Sprintf(" (+%d odd chip to %s)", p.Remainder, p.RemainderTo)
	}
	fmt.Fprintln(&b, r.styles.Winner.Render(line))
	return b.String()
}

// Summary renders a one-line description of the latest change.
func (r *Renderer) Summary(s game.Snapshot) string {
	line := fmt.Sprintf("#%d %s pot %d", s.HandNumber, s.Street, s.Pot)
	if a := s.LastAction; a != nil {
		line += fmt.Sprintf(" | %s %s", a.PlayerID, a.Action)
		if a.Amount > 0 {
			line += fmt.Sprintf(" %d", a.Amount)
		}
		if a.Auto {
			line += " (timeout)"
		}
	}
	if s.ToAct != "" {
		line += " | to act: " + s.ToAct
	}
	return line
}
