package poker

// HoleCardCategory is a coarse preflop strength bucket.
type HoleCardCategory string

const (
	CategoryPremium HoleCardCategory = "Premium"
	CategoryStrong  HoleCardCategory = "Strong"
	CategoryMedium  HoleCardCategory = "Medium"
	CategoryWeak    HoleCardCategory = "Weak"
	CategoryTrash   HoleCardCategory = "Trash"
	CategoryUnknown HoleCardCategory = "Unknown"
)

// CategorizeHoleCards buckets two hole cards.
// Premium (JJ+, AK), Strong (TT, AQ, AJ), Medium (77-99, suited broadway),
// Weak (22-66, suited connectors and one-gappers), Trash otherwise.
func CategorizeHoleCards(c1, c2 Card) HoleCardCategory {
	if !c1.Valid() || !c2.Valid() || c1 == c2 {
		return CategoryUnknown
	}

	low, high := c1.Rank, c2.Rank
	if low > high {
		low, high = high, low
	}
	pair := low == high
	suited := c1.Suit == c2.Suit

	switch {
	case pair && low >= Jack, low == King && high == Ace:
		return CategoryPremium
	case pair && low == Ten, high == Ace && (low == Queen || low == Jack):
		return CategoryStrong
	case pair && low >= Seven, suited && low >= Ten:
		return CategoryMedium
	case pair, suited && high-low <= 2:
		return CategoryWeak
	default:
		return CategoryTrash
	}
}

// CategorizeHoleCardsFromStrings categorizes hole cards given in card notation.
func CategorizeHoleCardsFromStrings(cards []string) HoleCardCategory {
	if len(cards) != 2 {
		return CategoryUnknown
	}
	c1, err1 := ParseCard(cards[0])
	c2, err2 := ParseCard(cards[1])
	if err1 != nil || err2 != nil {
		return CategoryUnknown
	}
	return CategorizeHoleCards(c1, c2)
}
