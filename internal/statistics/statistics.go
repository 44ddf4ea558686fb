// Package statistics tracks per-player results across hands at a table.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/holdem-engine/internal/game"
)

// MaxPositions is the number of positions tracked, counted from the button.
const MaxPositions = 10

// bigPotBB is the pot size, in big blinds, from which a pot counts as big.
const bigPotBB = 50

// HandResult is one player's outcome in a single hand.
type HandResult struct {
	NetChips       int        // stack change over the hand
	NetBB          float64    // NetChips in big blinds
	Position       int        // seats after the button, 0 is the button
	WentToShowdown bool       // whether the hand reached a showdown
	PotBB          float64    // final pot in big blinds
	StreetReached  game.Street
}

// PositionStats tracks results for one table position.
type PositionStats struct {
	Hands  int
	SumBB  float64
	SumBB2 float64
}

// Statistics accumulates one player's results.
type Statistics struct {
	Hands    int
	NetChips int
	SumBB    float64
	SumBB2   float64   // sum of squares for variance calculation
	Values   []float64 // every result, for median and percentiles

	// Wins and results split by whether the hand reached showdown
	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64
	NonShowdownBB   float64
	AllBB           float64

	PositionResults [MaxPositions]PositionStats

	MaxPotBB  float64 // largest pot played, in big blinds
	BigPots   int     // pots of at least 50bb
	BigPotsBB float64 // result from big pots
}

// Mean returns the mean result in big blinds per hand.
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance of all results.
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation of all results.
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a hand result.
func (s *Statistics) Add(result HandResult) {
	netBB := result.NetBB
	s.Hands++
	s.NetChips += result.NetChips
	s.SumBB += netBB
	s.SumBB2 += netBB * netBB
	s.Values = append(s.Values, netBB)

	if netBB > 0 {
		if result.WentToShowdown {
			s.ShowdownWins++
		} else {
			s.NonShowdownWins++
		}
	}
	if result.WentToShowdown {
		s.ShowdownBB += netBB
	} else {
		s.NonShowdownBB += netBB
	}
	s.AllBB += netBB

	if pos := result.Position; pos >= 0 && pos < MaxPositions {
		s.PositionResults[pos].Hands++
		s.PositionResults[pos].SumBB += netBB
		s.PositionResults[pos].SumBB2 += netBB * netBB
	}

	if result.PotBB > s.MaxPotBB {
		s.MaxPotBB = result.PotBB
	}
	if result.PotBB >= bigPotBB {
		s.BigPots++
		s.BigPotsBB += netBB
	}
}

func (s *Statistics) sorted() []float64 {
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	return sorted
}

// Median returns the median result.
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the interpolated result at p, from 0.0 to 1.0.
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// PositionMean returns the mean result at a position.
func (s *Statistics) PositionMean(position int) float64 {
	if position < 0 || position >= MaxPositions {
		return 0
	}
	ps := s.PositionResults[position]
	if ps.Hands == 0 {
		return 0
	}
	return ps.SumBB / float64(ps.Hands)
}

// IsLedgerBalanced checks the showdown split adds up to the total.
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllBB-s.ShowdownBB-s.NonShowdownBB) <= 1e-6
}

// Validate checks the accumulated data is consistent.
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllBB=%.6f, ShowdownBB=%.6f, NonShowdownBB=%.6f",
			s.AllBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values array length (%d) does not match hands count (%d)",
			len(s.Values), s.Hands)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Hands {
		return fmt.Errorf("total wins (%d) exceeds total hands (%d)", wins, s.Hands)
	}

	positionHands := 0
	for _, ps := range s.PositionResults {
		positionHands += ps.Hands
	}
	if positionHands != s.Hands {
		return fmt.Errorf("position hands total (%d) does not match total hands (%d)",
			positionHands, s.Hands)
	}
	return nil
}
