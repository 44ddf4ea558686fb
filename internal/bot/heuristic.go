package bot

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/poker"
)

// Score thresholds used by Heuristic.
const (
	strongScore = 0.75
	valueScore  = 0.55
	callScore   = 0.40
	cheapOdds   = 0.15
	jitter      = 0.03
)

// Heuristic scores the hand from simple features and maps the score against
// pot odds. It is an approximation and makes no attempt at balanced play.
type Heuristic struct{}

// thinking accumulates the notes that end up in Decision.Reasoning.
type thinking struct {
	thoughts []string
}

func (t *thinking) add(format string, args ...any) {
	t.thoughts = append(t.thoughts, fmt.Sprintf(format, args...))
}

func (t *thinking) String() string {
	if len(t.thoughts) == 0 {
		return "no clear reasoning"
	}
	return strings.Join(t.thoughts, "; ")
}

// Decide implements Strategy.
func (h Heuristic) Decide(s Situation, rng *rand.Rand) Decision {
	th := &thinking{}
	score := h.score(s, th)
	if rng != nil {
		score += (rng.Float64()*2 - 1) * jitter
	}

	toCall := s.ToCall()
	odds := s.PotOdds()
	if toCall > 0 {
		th.add("%d to call, pot odds %.2f", toCall, odds)
	}

	decide := func(a game.Action, amount int, why string) Decision {
		th.add("%s", why)
		return Decision{Action: a, Amount: amount, Reasoning: th.String()}
	}

	switch {
	case score >= strongScore:
		if target, ok := h.raiseTarget(s); ok {
			return decide(aggressive(s), target, fmt.Sprintf("strong hand (%.2f), raising to %d", score, target))
		}
		if toCall == 0 {
			return decide(game.Check, 0, "strong hand but raise too large for stack, checking")
		}
		return decide(game.Call, 0, "strong hand but raise too large for stack, calling")

	case toCall == 0:
		if score >= valueScore && rng != nil && rng.Float64() < 0.3 {
			if target, ok := h.raiseTarget(s); ok {
				return decide(aggressive(s), target, fmt.Sprintf("decent hand (%.2f), betting %d", score, target))
			}
		}
		return decide(game.Check, 0, "free card")

	case score >= callScore && odds <= score-0.15:
		return decide(game.Call, 0, fmt.Sprintf("playable hand (%.2f) at acceptable odds", score))

	case odds <= cheapOdds:
		return decide(game.Call, 0, "cheap enough to call")

	default:
		return decide(game.Fold, 0, fmt.Sprintf("weak hand (%.2f) for the price", score))
	}
}

func aggressive(s Situation) game.Action {
	if s.CurrentBet == 0 {
		return game.Bet
	}
	return game.Raise
}

// raiseTarget sizes a raise to max(CurrentBet+MinRaise, 2*BigBlind), refusing
// sizes above half the remaining stack.
func (h Heuristic) raiseTarget(s Situation) (int, bool) {
	target := max(s.CurrentBet+s.MinRaise, 2*s.BigBlind)
	limit := s.Bet + s.Stack/2
	if target > limit {
		return 0, false
	}
	return target, true
}

// score rates the hand roughly between 0 and 1.
func (h Heuristic) score(s Situation, th *thinking) float64 {
	if len(s.Hole) != 2 {
		th.add("missing hole cards")
		return 0
	}
	c1, c2 := s.Hole[0], s.Hole[1]
	hi, lo := c1.Rank, c2.Rank
	if lo > hi {
		hi, lo = lo, hi
	}

	score := float64(hi+lo-2*poker.Two) / 24 * 0.35
	th.add("holding %s %s (%s)", c1, c2, poker.CategorizeHoleCards(c1, c2))

	if hi == lo {
		score += 0.3 + float64(hi)/float64(poker.Ace)*0.15
	} else {
		switch hi - lo {
		case 1:
			score += 0.06
		case 2:
			score += 0.03
		}
	}
	if c1.Suit == c2.Suit {
		score += 0.06
	}

	if len(s.Community) >= 3 {
		score += h.boardScore(s, th)
	}

	switch pos := s.Position(); pos {
	case Late:
		score += 0.05
		th.add("late position")
	case Middle:
		score += 0.02
	}

	return min(max(score, 0), 1)
}

// boardScore adds bonuses for pairing the board, draws and made hands.
func (h Heuristic) boardScore(s Situation, th *thinking) float64 {
	bonus := 0.0
	drawsLive := s.Street < game.River

	boardRanks := make(map[poker.Rank]bool)
	for _, c := range s.Community {
		boardRanks[c.Rank] = true
	}
	for _, c := range s.Hole {
		if boardRanks[c.Rank] {
			bonus += 0.18
			th.add("paired the board with %s", c.Rank.Name())
		}
	}

	// Flushes and flush draws only count when a hole card is in the suit.
	var suits [4]int
	all := append(append([]poker.Card(nil), s.Hole...), s.Community...)
	for _, c := range all {
		suits[c.Suit%4]++
	}
	for _, c := range s.Hole {
		n := suits[c.Suit%4]
		if n >= 5 {
			bonus += 0.3
			th.add("flush")
			break
		}
		if n == 4 && drawsLive {
			bonus += 0.1
			th.add("flush draw")
			break
		}
	}

	switch run := longestRun(all); {
	case run >= 5:
		bonus += 0.25
		th.add("straight")
	case run == 4 && drawsLive:
		bonus += 0.08
		th.add("straight draw")
	}

	if rank, err := poker.Evaluate(all); err == nil {
		switch {
		case rank.Category >= poker.FullHouse:
			bonus += 0.3
		case rank.Category >= poker.ThreeOfAKind:
			bonus += 0.12
		case rank.Category == poker.TwoPair:
			bonus += 0.06
		}
		th.add("making %s", rank)
	}

	return bonus
}

// longestRun returns the longest run of consecutive ranks, with the ace
// also counting low.
func longestRun(cards []poker.Card) int {
	var present [poker.Ace + 1]bool
	for _, c := range cards {
		if !c.Valid() {
			continue
		}
		present[c.Rank] = true
		if c.Rank == poker.Ace {
			present[1] = true
		}
	}
	best, run := 0, 0
	for r := 1; r <= int(poker.Ace); r++ {
		if present[r] {
			run++
			best = max(best, run)
		} else {
			run = 0
		}
	}
	return best
}
