package pathfind

import (
	"github.com/VoidMesh/worldgen/internal/grid"
	"github.com/VoidMesh/worldgen/internal/terrain"
)

//go:generate go tool mockgen -destination=../testmocks/pathfind/mock_profile.go -package=mockpathfind . MovementProfile

// MovementProfile describes how fast an agent moves. The pathfinder adds
// BaseSpeed()/SpeedAt(x, y) to the cost of entering tile (x, y); a speed of
// zero or less makes the tile impassable for this agent.
type MovementProfile interface {
	BaseSpeed() float64
	SpeedAt(x, y int) float64
}

// UniformProfile moves at the same speed everywhere.
type UniformProfile struct {
	Speed float64
}

func (p UniformProfile) BaseSpeed() float64       { return p.Speed }
func (p UniformProfile) SpeedAt(x, y int) float64 { return p.Speed }

// TerrainProfile scales a base speed by the movement multiplier of each
// tile's terrain descriptor. Unknown terrain is impassable.
type TerrainProfile struct {
	base     float64
	tiles    *grid.Grid[terrain.Tile]
	registry terrain.Registry
}

// NewTerrainProfile creates a profile reading terrain from tiles.
func NewTerrainProfile(base float64, tiles *grid.Grid[terrain.Tile], registry terrain.Registry) *TerrainProfile {
	return &TerrainProfile{base: base, tiles: tiles, registry: registry}
}

func (p *TerrainProfile) BaseSpeed() float64 { return p.base }

func (p *TerrainProfile) SpeedAt(x, y int) float64 {
	tile, err := p.tiles.Get(x, y)
	if err != nil {
		return 0
	}
	d, ok := p.registry.Lookup(tile.Terrain)
	if !ok {
		return 0
	}
	return p.base * d.Properties.MovementSpeedMultiplier
}
