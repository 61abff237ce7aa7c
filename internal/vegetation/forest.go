package vegetation

import (
	"math"

	"github.com/VoidMesh/worldgen/internal/grid"
	"github.com/VoidMesh/worldgen/internal/rng"
	"github.com/VoidMesh/worldgen/internal/terrain"
)

const (
	DefaultPatchCount    = 5
	DefaultPatchFraction = 0.05
	DefaultSpreadChance  = 0.6
)

// ForestParams tunes patch growth.
type ForestParams struct {
	PatchCount    int
	PatchFraction float64
	SpreadChance  float64
}

// Patch is one grown forest region.
type Patch struct {
	Seed  grid.Point   `json:"seed"`
	Cap   int          `json:"cap"`
	Tiles []grid.Point `json:"-"`
}

// Size returns the number of tiles in the patch.
func (p Patch) Size() int { return len(p.Tiles) }

// pool is the set of remaining grassland tiles with O(1) removal.
type pool struct {
	tiles []grid.Point
	index map[grid.Point]int
}

func newPool(tiles *grid.Grid[terrain.Tile]) *pool {
	p := &pool{index: make(map[grid.Point]int)}
	tiles.Each(func(x, y int, t terrain.Tile) {
		if t.Terrain == terrain.Grassland {
			pt := grid.Point{X: x, Y: y}
			p.index[pt] = len(p.tiles)
			p.tiles = append(p.tiles, pt)
		}
	})
	return p
}

func (p *pool) len() int { return len(p.tiles) }

func (p *pool) contains(pt grid.Point) bool {
	_, ok := p.index[pt]
	return ok
}

func (p *pool) remove(pt grid.Point) {
	i, ok := p.index[pt]
	if !ok {
		return
	}
	last := len(p.tiles) - 1
	p.tiles[i] = p.tiles[last]
	p.index[p.tiles[i]] = i
	p.tiles = p.tiles[:last]
	delete(p.index, pt)
}

// PatchCap returns floor(remaining * fraction).
func PatchCap(remaining int, fraction float64) int {
	return int(math.Floor(float64(remaining) * fraction))
}

// GrowForestPatches converts grassland into up to PatchCount forest patches.
// Each patch is capped at PatchCap of the grassland left when it is seeded;
// seeding stops once that cap reaches zero. Assigned tiles leave the pool, so
// patches never overlap.
func GrowForestPatches(r *rng.RNG, tiles *grid.Grid[terrain.Tile], params ForestParams) []Patch {
	remaining := newPool(tiles)
	var patches []Patch

	for i := 0; i < params.PatchCount && remaining.len() > 0; i++ {
		limit := PatchCap(remaining.len(), params.PatchFraction)
		if limit == 0 {
			break
		}

		seed := remaining.tiles[r.IntN(remaining.len())]
		patch := Patch{Seed: seed, Cap: limit, Tiles: []grid.Point{seed}}
		inPatch := map[grid.Point]bool{seed: true}
		frontier := []grid.Point{seed}

	grow:
		for len(frontier) > 0 {
			cur := frontier[0]
			frontier = frontier[1:]

			for _, d := range grid.Orthogonal {
				if len(patch.Tiles) >= limit {
					break grow
				}
				nb := grid.Point{X: cur.X + d.X, Y: cur.Y + d.Y}
				if !remaining.contains(nb) || inPatch[nb] {
					continue
				}
				if r.Chance(params.SpreadChance) {
					inPatch[nb] = true
					patch.Tiles = append(patch.Tiles, nb)
					frontier = append(frontier, nb)
				}
			}
		}

		for _, pt := range patch.Tiles {
			tiles.Set(pt.X, pt.Y, terrain.Tile{Terrain: terrain.Forest})
			remaining.remove(pt)
		}
		patches = append(patches, patch)
	}
	return patches
}
