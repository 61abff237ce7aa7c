package hydrology

import (
	"math"
	"sort"

	"github.com/VoidMesh/worldgen/internal/grid"
	"github.com/VoidMesh/worldgen/internal/rng"
	"github.com/VoidMesh/worldgen/internal/terrain"
)

const (
	DefaultMaxSlope      = 0.05
	DefaultLateralChance = 0.5
)

// RiverParams tunes the greedy walk.
type RiverParams struct {
	MaxSlope      float64
	LateralChance float64
	// MaxAttempts caps the number of path tiles; 0 derives it from the map
	// size and LateralChance.
	MaxAttempts int
}

// StopReason says why a river walk ended.
type StopReason string

const (
	StopNoHeadwater StopReason = "no_headwater"
	StopTarget      StopReason = "target"
	StopWater       StopReason = "water"
	StopStalled     StopReason = "stalled"
	StopAttempts    StopReason = "attempts"
)

// River is the outcome of one carve.
type River struct {
	Headwater grid.Point   `json:"headwater"`
	Target    grid.Point   `json:"target"`
	Path      []grid.Point `json:"path"`
	Carved    int          `json:"carved"`
	Stop      StopReason   `json:"stop"`
}

// Len returns the number of tiles on the river path.
func (r River) Len() int { return len(r.Path) }

// MaxAttempts returns ceil(max(w,h)/lateralChance), never more than the tile
// count. A zero lateral chance falls back to the tile count.
func MaxAttempts(width, height int, lateralChance float64) int {
	limit := width * height
	if lateralChance <= 0 {
		return limit
	}
	n := int(math.Ceil(float64(max(width, height)) / lateralChance))
	return min(n, limit)
}

type step struct {
	p     grid.Point
	slope float64
}

// CarveRiver picks a headwater among Mountain/IceCap tiles and walks it toward
// the largest water body (or a random border tile when there is none). Each
// path tile that is not already water becomes River and is set in water.
// heights holds pooled tile heights.
func CarveRiver(
	r *rng.RNG,
	tiles *grid.Grid[terrain.Tile],
	water *grid.Grid[bool],
	heights *grid.Grid[float64],
	params RiverParams,
) River {
	var highlands []grid.Point
	tiles.Each(func(x, y int, t terrain.Tile) {
		if t.Terrain == terrain.Mountain || t.Terrain == terrain.IceCap {
			highlands = append(highlands, grid.Point{X: x, Y: y})
		}
	})
	if len(highlands) == 0 {
		return River{Stop: StopNoHeadwater}
	}

	headwater := highlands[r.IntN(len(highlands))]
	target := pickTarget(r, water)

	limit := params.MaxAttempts
	if limit <= 0 {
		limit = MaxAttempts(tiles.Width(), tiles.Height(), params.LateralChance)
	}
	limit = min(limit, tiles.Len())

	river := River{Headwater: headwater, Target: target}
	river.Path, river.Stop = walk(r, water, heights, headwater, target, limit, params)

	for _, p := range river.Path {
		if tiles.At(p.X, p.Y).IsWater {
			continue
		}
		tiles.Set(p.X, p.Y, terrain.Tile{Terrain: terrain.River, IsWater: true})
		water.Set(p.X, p.Y, true)
		river.Carved++
	}
	return river
}

func pickTarget(r *rng.RNG, water *grid.Grid[bool]) grid.Point {
	_, components := Label(water)
	if largest, ok := Largest(components); ok {
		return largest.Tiles[r.IntN(largest.Size())]
	}

	w, h := water.Width(), water.Height()
	switch r.IntN(4) {
	case 0:
		return grid.Point{X: 0, Y: r.IntN(h)}
	case 1:
		return grid.Point{X: w - 1, Y: r.IntN(h)}
	case 2:
		return grid.Point{X: r.IntN(w), Y: 0}
	default:
		return grid.Point{X: r.IntN(w), Y: h - 1}
	}
}

// walk runs the greedy descent. Visited tiles are never re-entered, so the
// path is simple and bounded by the tile count even when limit is large.
func walk(
	r *rng.RNG,
	water *grid.Grid[bool],
	heights *grid.Grid[float64],
	start, target grid.Point,
	limit int,
	params RiverParams,
) ([]grid.Point, StopReason) {
	visited := grid.New[bool](heights.Width(), heights.Height())
	visited.Set(start.X, start.Y, true)
	path := []grid.Point{start}
	current := start

	for {
		if current == target {
			return path, StopTarget
		}
		if len(path) >= limit {
			return path, StopAttempts
		}

		candidates := neighbors(heights, visited, current, func(s float64) bool {
			return s >= 0 && s <= params.MaxSlope
		})
		if len(candidates) == 0 {
			// bounded uphill tolerance
			candidates = neighbors(heights, visited, current, func(s float64) bool {
				return s <= params.MaxSlope
			})
		}
		if len(candidates) == 0 {
			return path, StopStalled
		}

		var next step
		if r.Chance(params.LateralChance) {
			sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].slope < candidates[j].slope })
			lateral := make([]step, 0, len(candidates))
			for _, c := range candidates {
				if c.slope < params.MaxSlope/2 {
					lateral = append(lateral, c)
				}
			}
			if len(lateral) > 0 {
				next = lateral[r.IntN(len(lateral))]
			} else {
				next = candidates[r.IntN(len(candidates))]
			}
		} else {
			next = candidates[0]
			for _, c := range candidates[1:] {
				if c.slope > next.slope {
					next = c
				}
			}
		}

		current = next.p
		visited.Set(current.X, current.Y, true)
		path = append(path, current)

		if water.At(current.X, current.Y) {
			return path, StopWater
		}
	}
}

func neighbors(heights *grid.Grid[float64], visited *grid.Grid[bool], p grid.Point, keep func(float64) bool) []step {
	out := make([]step, 0, 4)
	h := heights.At(p.X, p.Y)
	for _, d := range grid.Orthogonal {
		nx, ny := p.X+d.X, p.Y+d.Y
		if !heights.InBounds(nx, ny) || visited.At(nx, ny) {
			continue
		}
		// orthogonal steps have unit length
		slope := h - heights.At(nx, ny)
		if keep(slope) {
			out = append(out, step{p: grid.Point{X: nx, Y: ny}, slope: slope})
		}
	}
	return out
}
