// Package hydrology labels water regions, classifies them into ocean, lake and
// pond, and carves rivers from high ground toward water or the map edge.
package hydrology

import (
	"github.com/VoidMesh/worldgen/internal/grid"
	"github.com/VoidMesh/worldgen/internal/terrain"
)

// DefaultPondFraction is the share of total tiles below which an enclosed
// water body is a pond.
const DefaultPondFraction = 0.005

// Component is one maximal 4-connected region of a mask.
type Component struct {
	ID            int          `json:"id"`
	Tiles         []grid.Point `json:"-"`
	TouchesBorder bool         `json:"touches_border"`
}

// Size returns the number of tiles in the component.
func (c Component) Size() int { return len(c.Tiles) }

// Body is a classified water component.
type Body struct {
	Component
	Category terrain.Category `json:"category"`
}

// Label partitions the true cells of mask into 4-connected components. IDs
// start at 1 and follow raster order of each component's first cell; the
// returned label grid holds 0 for false cells.
func Label(mask *grid.Grid[bool]) (*grid.Grid[int], []Component) {
	labels := grid.New[int](mask.Width(), mask.Height())
	var components []Component
	queue := make([]grid.Point, 0, 64)

	mask.Each(func(x, y int, set bool) {
		if !set || labels.At(x, y) != 0 {
			return
		}

		id := len(components) + 1
		comp := Component{ID: id}
		labels.Set(x, y, id)
		queue = append(queue[:0], grid.Point{X: x, Y: y})

		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]
			comp.Tiles = append(comp.Tiles, p)
			if mask.OnBorder(p.X, p.Y) {
				comp.TouchesBorder = true
			}

			for _, d := range grid.Orthogonal {
				nx, ny := p.X+d.X, p.Y+d.Y
				if !mask.InBounds(nx, ny) || !mask.At(nx, ny) || labels.At(nx, ny) != 0 {
					continue
				}
				labels.Set(nx, ny, id)
				queue = append(queue, grid.Point{X: nx, Y: ny})
			}
		}
		components = append(components, comp)
	})

	return labels, components
}

// Largest returns the biggest component; ties go to the lowest ID.
func Largest(components []Component) (Component, bool) {
	if len(components) == 0 {
		return Component{}, false
	}
	best := components[0]
	for _, c := range components[1:] {
		if c.Size() > best.Size() {
			best = c
		}
	}
	return best, true
}

// PondThreshold is the tile count below which an enclosed body is a pond.
func PondThreshold(totalTiles int, pondFraction float64) float64 {
	return pondFraction * float64(totalTiles)
}

// ClassifyWaterBodies labels mask and rewrites each member tile of tiles:
// border-touching bodies become Ocean, enclosed bodies smaller than the pond
// threshold become Pond, and the rest become Lake.
func ClassifyWaterBodies(tiles *grid.Grid[terrain.Tile], mask *grid.Grid[bool], pondFraction float64) []Body {
	_, components := Label(mask)
	threshold := PondThreshold(mask.Len(), pondFraction)

	bodies := make([]Body, 0, len(components))
	for _, comp := range components {
		var category terrain.Category
		switch {
		case comp.TouchesBorder:
			category = terrain.Ocean
		case float64(comp.Size()) < threshold:
			category = terrain.Pond
		default:
			category = terrain.Lake
		}

		for _, p := range comp.Tiles {
			tiles.Set(p.X, p.Y, terrain.Tile{Terrain: category, IsWater: true})
		}
		bodies = append(bodies, Body{Component: comp, Category: category})
	}
	return bodies
}
