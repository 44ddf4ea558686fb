package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministic(t *testing.T) {
	a, b := New(99), New(99)
	for i := 0; i < 16; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
	assert.NotEqual(t, New(1).Uint64(), New(2).Uint64())
}

func TestSeed(t *testing.T) {
	assert.Equal(t, int64(17), Seed(17))
	assert.NotZero(t, Seed(0))
	assert.Positive(t, Seed(0))
}

func TestChildStreamsAreReproducible(t *testing.T) {
	p1, p2 := New(5), New(5)
	c1, c2 := Child(p1), Child(p2)
	assert.Equal(t, c1.IntN(1000), c2.IntN(1000))
	assert.NotEqual(t, Child(New(5)).Uint64(), New(5).Uint64())
}
