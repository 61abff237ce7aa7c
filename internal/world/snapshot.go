package world

import (
	"time"

	"github.com/google/uuid"

	"github.com/VoidMesh/worldgen/internal/config"
	"github.com/VoidMesh/worldgen/internal/grid"
	"github.com/VoidMesh/worldgen/internal/heightfield"
	"github.com/VoidMesh/worldgen/internal/hydrology"
	"github.com/VoidMesh/worldgen/internal/terrain"
	"github.com/VoidMesh/worldgen/internal/vegetation"
)

// Snapshot is one complete, immutable generated world. Readers must not
// modify any of its grids.
type Snapshot struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Config    config.Generation

	Peaks       []heightfield.Peak
	HeightField *grid.Grid[float64] // sub-tile resolution
	TileHeights *grid.Grid[float64] // pooled, one per tile
	Levels      terrain.Levels

	Tiles     *grid.Grid[terrain.Tile]
	Water     *grid.Grid[bool]
	Obstacles *grid.Grid[bool]

	WaterBodies []hydrology.Body
	Rivers      []hydrology.River
	Patches     []vegetation.Patch
	Trees       *vegetation.Layer
}

// Width returns the number of tile columns.
func (s *Snapshot) Width() int { return s.Tiles.Width() }

// Height returns the number of tile rows.
func (s *Snapshot) Height() int { return s.Tiles.Height() }

// Tile returns the tile at (x, y) or grid.ErrOutOfBounds.
func (s *Snapshot) Tile(x, y int) (terrain.Tile, error) {
	return s.Tiles.Get(x, y)
}

// EachTile visits every tile in row-major order.
func (s *Snapshot) EachTile(fn func(x, y int, t terrain.Tile)) {
	s.Tiles.Each(fn)
}

// Elevation returns the pooled height of tile (x, y).
func (s *Snapshot) Elevation(x, y int) float64 { return s.TileHeights.At(x, y) }

// Blocked reports whether tile (x, y) is an obstacle.
func (s *Snapshot) Blocked(x, y int) bool { return s.Obstacles.At(x, y) }

// Summary is an aggregate view of a snapshot.
type Summary struct {
	ID            string                   `json:"id"`
	Seed          int64                    `json:"seed"`
	SizeX         int                      `json:"size_x"`
	SizeY         int                      `json:"size_y"`
	Subdivisions  int                      `json:"subdivisions"`
	Scale         float64                  `json:"scale"`
	Peaks         int                      `json:"peaks"`
	Levels        terrain.Levels           `json:"levels"`
	Histogram     map[terrain.Category]int `json:"histogram"`
	WaterFraction float64                  `json:"water_fraction"`
	WaterBodies   int                      `json:"water_bodies"`
	RiverCount    int                      `json:"river_count"`
	RiverLengths  []int                    `json:"river_lengths"`
	RiverTiles    int                      `json:"river_tiles"`
	PatchSizes    []int                    `json:"patch_sizes"`
	ForestTiles   int                      `json:"forest_tiles"`
	TreeCount     int                      `json:"tree_count"`
	CreatedAt     time.Time                `json:"created_at"`
}

// Summary computes aggregate statistics.
func (s *Snapshot) Summary() Summary {
	hist := terrain.Histogram(s.Tiles)

	water := 0
	for _, w := range s.Water.Values() {
		if w {
			water++
		}
	}

	sum := Summary{
		ID:            s.ID.String(),
		Seed:          s.Config.Seed,
		SizeX:         s.Config.SizeX,
		SizeY:         s.Config.SizeY,
		Subdivisions:  s.Config.Subdivisions,
		Scale:         s.Config.Scale,
		Peaks:         len(s.Peaks),
		Levels:        s.Levels,
		Histogram:     hist,
		WaterFraction: float64(water) / float64(s.Tiles.Len()),
		WaterBodies:   len(s.WaterBodies),
		RiverCount:    len(s.Rivers),
		RiverLengths:  make([]int, 0, len(s.Rivers)),
		RiverTiles:    hist[terrain.River],
		PatchSizes:    make([]int, 0, len(s.Patches)),
		ForestTiles:   hist[terrain.Forest],
		TreeCount:     s.Trees.Count(),
		CreatedAt:     s.CreatedAt,
	}
	for _, r := range s.Rivers {
		sum.RiverLengths = append(sum.RiverLengths, r.Len())
	}
	for _, p := range s.Patches {
		sum.PatchSizes = append(sum.PatchSizes, p.Size())
	}
	return sum
}
