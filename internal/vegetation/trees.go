package vegetation

import (
	"fmt"

	"github.com/VoidMesh/worldgen/internal/grid"
	"github.com/VoidMesh/worldgen/internal/rng"
	"github.com/VoidMesh/worldgen/internal/terrain"
)

const (
	DefaultForestTreeDensity    = 0.99
	DefaultGrasslandTreeDensity = 0.0
)

// Densities maps a terrain to the chance that a sub-tile cell gets a tree.
// Terrains without an entry are not plantable.
type Densities map[terrain.Category]float64

// DefaultDensities returns forest 0.99 and grassland 0.
func DefaultDensities() Densities {
	return Densities{
		terrain.Forest:    DefaultForestTreeDensity,
		terrain.Grassland: DefaultGrasslandTreeDensity,
	}
}

// Tree is one placed tree. X and Y are world (tile) coordinates.
type Tree struct {
	Species   string     `json:"species"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	Cell      grid.Point `json:"cell"`
	Age       int        `json:"age"`
	HitPoints float64    `json:"hp"`
}

// Layer holds the trees placed on the sub-tile grid.
type Layer struct {
	Subdivisions int
	Trees        []Tree
	cells        *grid.Grid[int] // index+1 into Trees, 0 when empty
}

// At returns the tree occupying sub-tile cell (cx, cy).
func (l *Layer) At(cx, cy int) (Tree, bool) {
	if l == nil || l.cells == nil || !l.cells.InBounds(cx, cy) {
		return Tree{}, false
	}
	i := l.cells.At(cx, cy)
	if i == 0 {
		return Tree{}, false
	}
	return l.Trees[i-1], true
}

// InTile returns the trees standing on tile (x, y).
func (l *Layer) InTile(x, y int) []Tree {
	if l == nil || l.cells == nil {
		return nil
	}
	var out []Tree
	for sy := 0; sy < l.Subdivisions; sy++ {
		for sx := 0; sx < l.Subdivisions; sx++ {
			if t, ok := l.At(x*l.Subdivisions+sx, y*l.Subdivisions+sy); ok {
				out = append(out, t)
			}
		}
	}
	return out
}

// Count returns the number of trees.
func (l *Layer) Count() int {
	if l == nil {
		return 0
	}
	return len(l.Trees)
}

// PopulateTrees walks every sub-tile cell and, with the density of its tile's
// terrain, places a tree of a species drawn from that terrain's vegetation
// list. Species names are resolved through species.
func PopulateTrees(
	r *rng.RNG,
	tiles *grid.Grid[terrain.Tile],
	subdivisions int,
	densities Densities,
	terrains terrain.Registry,
	species Registry,
) (*Layer, error) {
	if subdivisions <= 0 {
		return nil, fmt.Errorf("subdivisions must be positive, got %d", subdivisions)
	}

	layer := &Layer{
		Subdivisions: subdivisions,
		cells:        grid.New[int](tiles.Width()*subdivisions, tiles.Height()*subdivisions),
	}
	sub := float64(subdivisions)

	for cy := 0; cy < layer.cells.Height(); cy++ {
		for cx := 0; cx < layer.cells.Width(); cx++ {
			tile := tiles.At(cx/subdivisions, cy/subdivisions)
			density, ok := densities[tile.Terrain]
			if !ok || density <= 0 || !r.Chance(density) {
				continue
			}

			desc, ok := terrains.Lookup(tile.Terrain)
			if !ok || len(desc.Vegetation) == 0 {
				continue
			}
			name := desc.Vegetation[r.IntN(len(desc.Vegetation))]
			s, ok := species.Lookup(name)
			if !ok {
				return nil, fmt.Errorf("terrain %q references unknown tree species %q", tile.Terrain, name)
			}

			layer.Trees = append(layer.Trees, Tree{
				Species:   s.Name,
				X:         float64(cx) / sub,
				Y:         float64(cy) / sub,
				Cell:      grid.Point{X: cx, Y: cy},
				Age:       s.GrowthRate,
				HitPoints: s.HitPoints(),
			})
			layer.cells.Set(cx, cy, len(layer.Trees))
		}
	}
	return layer, nil
}
