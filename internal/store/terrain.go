package store

import (
	"fmt"

	"github.com/VoidMesh/worldgen/internal/grid"
	"github.com/VoidMesh/worldgen/internal/terrain"
)

// unknownTerrain marks a category outside terrain.Categories.
const unknownTerrain = 0xFF

// EncodeTerrain packs tiles row-major, one byte per tile holding the index of
// its category in terrain.Categories.
func EncodeTerrain(tiles *grid.Grid[terrain.Tile]) []byte {
	index := make(map[terrain.Category]byte, len(terrain.Categories))
	for i, c := range terrain.Categories {
		index[c] = byte(i)
	}

	out := make([]byte, tiles.Len())
	for i, t := range tiles.Values() {
		b, ok := index[t.Terrain]
		if !ok {
			b = unknownTerrain
		}
		out[i] = b
	}
	return out
}

// DecodeTerrain unpacks data produced by EncodeTerrain.
func DecodeTerrain(data []byte, width, height int) (*grid.Grid[terrain.Tile], error) {
	if len(data) != width*height {
		return nil, fmt.Errorf("terrain blob has %d bytes, want %d", len(data), width*height)
	}
	tiles := grid.New[terrain.Tile](width, height)
	for i, b := range data {
		if int(b) >= len(terrain.Categories) {
			return nil, fmt.Errorf("terrain blob byte %d has unknown category %d", i, b)
		}
		c := terrain.Categories[b]
		tiles.Values()[i] = terrain.Tile{Terrain: c, IsWater: c.IsWater()}
	}
	return tiles, nil
}
