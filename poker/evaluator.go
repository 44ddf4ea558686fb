package poker

import (
	"errors"
	"fmt"
	"sort"
)

// HandCategory enumerates poker hand categories from weakest to strongest.
type HandCategory int8

// InvalidHand is the category reported for input that could not be evaluated.
// It sorts below every real hand.
const InvalidHand HandCategory = -1

const (
	HighCard HandCategory = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns the category name.
func (c HandCategory) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Invalid"
	}
}

// HandRank is a comparable rank vector: the category followed by the ranks that
// decide ties, most significant first. Unused kicker slots are zero.
type HandRank struct {
	Category HandCategory `json:"category"`
	Kickers  [5]Rank      `json:"kickers"`
}

// InvalidRank is the rank returned alongside an evaluation error.
var InvalidRank = HandRank{Category: InvalidHand}

// Evaluation errors. They indicate malformed card data upstream.
var (
	ErrTooFewCards   = errors.New("poker: fewer than 5 cards")
	ErrTooManyCards  = errors.New("poker: more than 7 cards")
	ErrInvalidCard   = errors.New("poker: invalid card")
	ErrDuplicateCard = errors.New("poker: duplicate card")
)

// CompareRanks compares two ranks lexicographically and returns 1 if a is
// stronger, -1 if b is stronger and 0 on a tie.
func CompareRanks(a, b HandRank) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}
	for i := range a.Kickers {
		if a.Kickers[i] != b.Kickers[i] {
			if a.Kickers[i] > b.Kickers[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Beats reports whether r is strictly stronger than other.
func (r HandRank) Beats(other HandRank) bool {
	return CompareRanks(r, other) > 0
}

// String returns a human-readable description such as "Full House, Kings over Fives".
func (r HandRank) String() string {
	k := r.Kickers
	switch r.Category {
	case HighCard:
		return fmt.Sprintf("High Card, %s", k[0].Name())
	case Pair:
		return fmt.Sprintf("Pair of %s", plural(k[0]))
	case TwoPair:
		return fmt.Sprintf("Two Pair, %s and %s", plural(k[0]), plural(k[1]))
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a Kind, %s", plural(k[0]))
	case Straight:
		return fmt.Sprintf("Straight, %s high", k[0].Name())
	case Flush:
		return fmt.Sprintf("Flush, %s high", k[0].Name())
	case FullHouse:
		return fmt.Sprintf("Full House, %s over %s", plural(k[0]), plural(k[1]))
	case FourOfAKind:
		return fmt.Sprintf("Four of a Kind, %s", plural(k[0]))
	case StraightFlush:
		if k[0] == Ace {
			return "Royal Flush"
		}
		return fmt.Sprintf("Straight Flush, %s high", k[0].Name())
	default:
		return "Invalid Hand"
	}
}

func plural(r Rank) string {
	if r == Six {
		return "Sixes"
	}
	return r.Name() + "s"
}

// Evaluate ranks the best five-card hand that can be made from 5 to 7 cards.
// Malformed input yields InvalidRank together with a wrapped error.
func Evaluate(cards []Card) (HandRank, error) {
	_, rank, err := BestHand(cards)
	return rank, err
}

// BestHand returns the strongest five cards among the input and their rank.
// Every C(n,5) subset is ranked and the maximum is kept.
func BestHand(cards []Card) ([]Card, HandRank, error) {
	if err := validate(cards); err != nil {
		return nil, InvalidRank, err
	}

	var (
		best     HandRank
		bestFive [5]Card
		five     [5]Card
		found    bool
	)
	n := len(cards)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						five = [5]Card{cards[a], cards[b], cards[c], cards[d], cards[e]}
						rank := rank5(five)
						if !found || rank.Beats(best) {
							best, bestFive, found = rank, five, true
						}
					}
				}
			}
		}
	}

	return bestFive[:], best, nil
}

func validate(cards []Card) error {
	if len(cards) < 5 {
		return fmt.Errorf("%w: got %d", ErrTooFewCards, len(cards))
	}
	if len(cards) > 7 {
		return fmt.Errorf("%w: got %d", ErrTooManyCards, len(cards))
	}
	seen := make(map[Card]bool, len(cards))
	for _, c := range cards {
		if !c.Valid() {
			return fmt.Errorf("%w: %d/%d", ErrInvalidCard, c.Rank, c.Suit)
		}
		if seen[c] {
			return fmt.Errorf("%w: %s", ErrDuplicateCard, c)
		}
		seen[c] = true
	}
	return nil
}

type rankGroup struct {
	rank  Rank
	count int
}

// rank5 classifies exactly five valid cards.
func rank5(cards [5]Card) HandRank {
	var counts [Ace + 1]int
	flush := true
	for i, c := range cards {
		counts[c.Rank]++
		if i > 0 && c.Suit != cards[0].Suit {
			flush = false
		}
	}

	// Groups ordered by size then rank: this is also the kicker order for
	// every category except straights.
	groups := make([]rankGroup, 0, 5)
	for r := Ace; r >= Two; r-- {
		if counts[r] > 0 {
			groups = append(groups, rankGroup{rank: r, count: counts[r]})
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].count > groups[j].count
	})

	var kickers [5]Rank
	for i, g := range groups {
		kickers[i] = g.rank
	}

	straightHigh := Rank(0)
	if len(groups) == 5 {
		switch {
		case groups[0].rank-groups[4].rank == 4:
			straightHigh = groups[0].rank
		case groups[0].rank == Ace && groups[1].rank == Five:
			// A-2-3-4-5 plays as a five-high straight.
			straightHigh = Five
		}
	}

	switch {
	case straightHigh > 0 && flush:
		return HandRank{Category: StraightFlush, Kickers: [5]Rank{straightHigh}}
	case groups[0].count == 4:
		return HandRank{Category: FourOfAKind, Kickers: kickers}
	case groups[0].count == 3 && groups[1].count == 2:
		return HandRank{Category: FullHouse, Kickers: kickers}
	case flush:
		return HandRank{Category: Flush, Kickers: kickers}
	case straightHigh > 0:
		return HandRank{Category: Straight, Kickers: [5]Rank{straightHigh}}
	case groups[0].count == 3:
		return HandRank{Category: ThreeOfAKind, Kickers: kickers}
	case groups[0].count == 2 && groups[1].count == 2:
		return HandRank{Category: TwoPair, Kickers: kickers}
	case groups[0].count == 2:
		return HandRank{Category: Pair, Kickers: kickers}
	default:
		return HandRank{Category: HighCard, Kickers: kickers}
	}
}
