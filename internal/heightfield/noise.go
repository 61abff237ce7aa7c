package heightfield

import (
	"github.com/aquilax/go-perlin"
)

// NoiseSource produces coherent noise in roughly [-1, 1].
type NoiseSource interface {
	Noise2D(x, y float64) float64
	Seed() int64
}

// PerlinNoise implements NoiseSource using Perlin noise.
type PerlinNoise struct {
	noise *perlin.Perlin
	seed  int64
}

// NewPerlinNoise creates a seeded Perlin source.
func NewPerlinNoise(seed int64) *PerlinNoise {
	// alpha=2, beta=2, n=3 gives terrain-like octaves
	return &PerlinNoise{
		noise: perlin.NewPerlin(2, 2, 3, seed),
		seed:  seed,
	}
}

// Noise2D returns a noise value for the given coordinates
func (p *PerlinNoise) Noise2D(x, y float64) float64 {
	return p.noise.Noise2D(x, y)
}

// Seed returns the seed the source was built from
func (p *PerlinNoise) Seed() int64 {
	return p.seed
}
