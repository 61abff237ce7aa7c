// Package heightfield synthesizes the continuous elevation surface of a world
// from summed anisotropic Gaussian bumps, rescaled to [0, 1].
package heightfield

import (
	"math"

	"github.com/VoidMesh/worldgen/internal/grid"
	"github.com/VoidMesh/worldgen/internal/rng"
)

const (
	DefaultSpreadMin    = 0.05
	DefaultSpreadMax    = 0.2
	DefaultAmplitudeMin = -1.0
	DefaultAmplitudeMax = 1.0
)

// Peak is one Gaussian bump in normalized [0,1]² coordinates.
type Peak struct {
	CenterX   float64
	CenterY   float64
	SpreadX   float64
	SpreadY   float64
	Amplitude float64
}

// Options tunes bump parameters and the optional noise detail layer.
type Options struct {
	SpreadMin    float64
	SpreadMax    float64
	AmplitudeMin float64
	AmplitudeMax float64

	// Detail is the weight of a Perlin layer added before rescaling; 0 leaves
	// the field purely Gaussian.
	Detail      float64
	DetailScale float64
}

// DefaultOptions returns the stock bump ranges with no detail layer.
func DefaultOptions() Options {
	return Options{
		SpreadMin:    DefaultSpreadMin,
		SpreadMax:    DefaultSpreadMax,
		AmplitudeMin: DefaultAmplitudeMin,
		AmplitudeMax: DefaultAmplitudeMax,
		DetailScale:  8,
	}
}

// Generator builds elevation fields.
type Generator struct {
	opts Options
}

func NewGenerator(opts Options) *Generator {
	return &Generator{opts: opts}
}

// RandomPeaks draws n peaks from r. Each peak consumes five draws in a fixed
// order so the sequence is reproducible.
func (g *Generator) RandomPeaks(r *rng.RNG, n int) []Peak {
	peaks := make([]Peak, n)
	for i := range peaks {
		peaks[i] = Peak{
			CenterX:   r.Float64(),
			CenterY:   r.Float64(),
			SpreadX:   r.Uniform(g.opts.SpreadMin, g.opts.SpreadMax),
			SpreadY:   r.Uniform(g.opts.SpreadMin, g.opts.SpreadMax),
			Amplitude: r.Uniform(g.opts.AmplitudeMin, g.opts.AmplitudeMax),
		}
	}
	return peaks
}

// Generate draws n peaks and renders a width x height field in [0,1].
func (g *Generator) Generate(r *rng.RNG, width, height, n int) *grid.Grid[float64] {
	peaks := g.RandomPeaks(r, n)

	var detail NoiseSource
	if g.opts.Detail > 0 {
		detail = NewPerlinNoise(r.Int64())
	}
	return g.Render(width, height, peaks, detail)
}

// Render sums peaks (and detail, when non-nil) over a normalized coordinate
// grid and rescales the result to [0,1].
func (g *Generator) Render(width, height int, peaks []Peak, detail NoiseSource) *grid.Grid[float64] {
	field := grid.New[float64](width, height)
	xs := linspace(width)
	ys := linspace(height)
	values := field.Values()

	for _, p := range peaks {
		dx2 := 2 * p.SpreadX * p.SpreadX
		dy2 := 2 * p.SpreadY * p.SpreadY
		for j, y := range ys {
			ty := (y - p.CenterY) * (y - p.CenterY) / dy2
			row := values[j*width : (j+1)*width]
			for k, x := range xs {
				tx := (x - p.CenterX) * (x - p.CenterX) / dx2
				row[k] += p.Amplitude * math.Exp(-(tx + ty))
			}
		}
	}

	if detail != nil {
		scale := g.opts.DetailScale
		for j, y := range ys {
			for k, x := range xs {
				values[j*width+k] += g.opts.Detail * detail.Noise2D(x*scale, y*scale)
			}
		}
	}

	Normalize(field)
	return field
}

// Normalize linearly rescales field values in place to [0,1]. A flat field
// becomes all zeros.
func Normalize(field *grid.Grid[float64]) {
	values := field.Values()
	if len(values) == 0 {
		return
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	for i, v := range values {
		if span == 0 {
			values[i] = 0
			continue
		}
		n := (v - lo) / span
		// guard against rounding pushing a value a hair past the unit range
		values[i] = math.Min(1, math.Max(0, n))
	}
}

// linspace returns n evenly spaced samples over [0,1].
func linspace(n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		return out
	}
	for i := range out {
		out[i] = float64(i) / float64(n-1)
	}
	return out
}
