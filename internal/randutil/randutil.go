// Package randutil derives reproducible math/rand/v2 sources from int64 seeds.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed. Both PCG words
// are derived here so every call site gets the same sequence for the same seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Seed returns seed unchanged, or a time-derived seed when it is zero.
// Callers log the returned value so a table can be replayed.
func Seed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	s := int64(mix(uint64(time.Now().UnixNano())) >> 1)
	if s == 0 {
		s = 1
	}
	return s
}

// Child derives an independent stream from parent, e.g. one for shuffling
// and one for bot decisions, so the two never perturb each other.
func Child(parent *rand.Rand) *rand.Rand {
	return rand.New(rand.NewPCG(mix(parent.Uint64()), mix(parent.Uint64())))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
