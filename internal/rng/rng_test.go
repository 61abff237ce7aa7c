package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRNG_Deterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.IntN(17), b.IntN(17))
	}
}

func TestRNG_Ranges(t *testing.T) {
	r := New(7)
	for i := 0; i < 1000; i++ {
		u := r.Uniform(0.05, 0.2)
		assert.GreaterOrEqual(t, u, 0.05)
		assert.Less(t, u, 0.2)

		n := r.IntRange(5, 10)
		assert.GreaterOrEqual(t, n, 5)
		assert.LessOrEqual(t, n, 10)
	}
	assert.Equal(t, 0, r.IntN(0))
	assert.Equal(t, 3, r.IntRange(3, 3))
	assert.False(t, r.Chance(0))
	assert.True(t, r.Chance(1))
}
