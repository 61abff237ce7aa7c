// Package terrain holds terrain categories, the descriptor registry and the
// percentile classifier that turns pooled elevation into categories.
package terrain

import (
	"fmt"
	"math"
	"sort"

	"github.com/VoidMesh/worldgen/internal/grid"
)

// Levels are the three height cutoffs derived from the pooled distribution.
type Levels struct {
	Water    float64 `json:"water_level"`
	Mountain float64 `json:"mountain_level"`
	Ice      float64 `json:"ice_level"`
}

// Ratios are the configured area fractions per category.
type Ratios struct {
	Water    float64
	Mountain float64
	IceCap   float64
}

// PoolHeights averages each subdivisions x subdivisions block of the
// elevation field into one tile height.
func PoolHeights(field *grid.Grid[float64], subdivisions int) (*grid.Grid[float64], error) {
	if subdivisions <= 0 {
		return nil, fmt.Errorf("subdivisions must be positive, got %d", subdivisions)
	}
	if field.Width()%subdivisions != 0 || field.Height()%subdivisions != 0 {
		return nil, fmt.Errorf("field %dx%d is not a multiple of %d subdivisions",
			field.Width(), field.Height(), subdivisions)
	}

	w := field.Width() / subdivisions
	h := field.Height() / subdivisions
	pooled := grid.New[float64](w, h)
	src := field.Values()
	n := float64(subdivisions * subdivisions)

	for ty := 0; ty < h; ty++ {
		for tx := 0; tx < w; tx++ {
			sum := 0.0
			for sy := 0; sy < subdivisions; sy++ {
				row := (ty*subdivisions + sy) * field.Width()
				for sx := 0; sx < subdivisions; sx++ {
					sum += src[row+tx*subdivisions+sx]
				}
			}
			pooled.Set(tx, ty, sum/n)
		}
	}
	return pooled, nil
}

// Percentile returns the p-th percentile (0..100) of values using linear
// interpolation between closest ranks. values is not modified.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return percentileSorted(sorted, p)
}

func percentileSorted(sorted []float64, p float64) float64 {
	p = math.Min(100, math.Max(0, p))
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// ComputeLevels derives the cutoffs from pooled tile heights so that category
// area fractions track the configured ratios.
func ComputeLevels(pooled *grid.Grid[float64], ratios Ratios) Levels {
	sorted := make([]float64, pooled.Len())
	copy(sorted, pooled.Values())
	sort.Float64s(sorted)

	return Levels{
		Water:    percentileSorted(sorted, ratios.Water*100),
		Mountain: percentileSorted(sorted, (1-ratios.Mountain)*100),
		Ice:      percentileSorted(sorted, (1-ratios.IceCap)*100),
	}
}

// CategoryFor classifies one pooled height. Ocean is provisional; hydrology
// refines water categories afterwards.
func CategoryFor(h float64, levels Levels) Category {
	switch {
	case h < levels.Water:
		return Ocean
	case h > levels.Ice:
		return IceCap
	case h > levels.Mountain:
		return Mountain
	default:
		return Grassland
	}
}

// Classify assigns a tile per pooled height and returns the tile grid and the
// matching water mask.
func Classify(pooled *grid.Grid[float64], levels Levels) (*grid.Grid[Tile], *grid.Grid[bool]) {
	tiles := grid.New[Tile](pooled.Width(), pooled.Height())
	water := grid.New[bool](pooled.Width(), pooled.Height())

	pooled.Each(func(x, y int, h float64) {
		c := CategoryFor(h, levels)
		tiles.Set(x, y, Tile{Terrain: c, IsWater: c.IsWater()})
		water.Set(x, y, c.IsWater())
	})
	return tiles, water
}

// ObstacleMask marks tiles whose descriptor is not passable. Unknown
// categories are treated as obstacles.
func ObstacleMask(tiles *grid.Grid[Tile], reg Registry) *grid.Grid[bool] {
	mask := grid.New[bool](tiles.Width(), tiles.Height())
	tiles.Each(func(x, y int, t Tile) {
		d, ok := reg.Lookup(t.Terrain)
		mask.Set(x, y, !ok || !d.Properties.IsPassable)
	})
	return mask
}

// Histogram counts tiles per category.
func Histogram(tiles *grid.Grid[Tile]) map[Category]int {
	counts := make(map[Category]int)
	for _, t := range tiles.Values() {
		counts[t.Terrain]++
	}
	return counts
}
