// Package rng wraps math/rand/v2 with a deterministic seed so that every
// stochastic generation stage can share one explicitly injected source.
package rng

import "math/rand/v2"

// RNG is a deterministic random source.
type RNG struct {
	r *rand.Rand
}

// New creates a deterministic RNG from seed.
func New(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Float64 returns a value in [0, 1).
func (r *RNG) Float64() float64 { return r.r.Float64() }

// Uniform returns a value in [lo, hi).
func (r *RNG) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*r.r.Float64()
}

// IntN returns a value in [0, n). It returns 0 when n <= 0.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// IntRange returns a value in [lo, hi] inclusive.
func (r *RNG) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.r.IntN(hi-lo+1)
}

// Chance reports true with probability p.
func (r *RNG) Chance(p float64) bool {
	return r.r.Float64() < p
}

// Int64 returns a non-negative 63-bit value, used to seed sub-generators.
func (r *RNG) Int64() int64 { return r.r.Int64() }

// Source exposes the underlying rand.Rand.
func (r *RNG) Source() *rand.Rand { return r.r }
