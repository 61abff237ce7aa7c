// Package pathfind finds least-cost routes across the tile grid with an
// 8-directional A* search that charges for distance, climbing and terrain
// speed.
package pathfind

import (
	"container/heap"
	"errors"
	"fmt"
	"math"

	"github.com/VoidMesh/worldgen/internal/grid"
)

// UphillPenalty multiplies the height gained on each step.
const UphillPenalty = 10.0

// ErrNoPath is returned when the goal is an obstacle or cannot be reached.
var ErrNoPath = errors.New("no path to goal")

// Grid is the read-only view of a world the search runs over.
type Grid interface {
	Width() int
	Height() int
	Elevation(x, y int) float64
	Blocked(x, y int) bool
}

// Point is a continuous world position in tile units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Tile returns the tile containing p.
func (p Point) Tile() grid.Point {
	return grid.Point{X: int(math.Floor(p.X)), Y: int(math.Floor(p.Y))}
}

// Center returns the center of tile t.
func Center(t grid.Point) Point {
	return Point{X: float64(t.X) + 0.5, Y: float64(t.Y) + 0.5}
}

// Path is an ordered list of waypoints.
type Path []Point

// Length returns the Euclidean length of the polyline.
func (p Path) Length() float64 {
	total := 0.0
	for i := 1; i < len(p); i++ {
		total += math.Hypot(p[i].X-p[i-1].X, p[i].Y-p[i-1].Y)
	}
	return total
}

// Result is a successful search.
type Result struct {
	Path     Path         `json:"path"`
	Tiles    []grid.Point `json:"tiles"`
	Cost     float64      `json:"cost"`
	Expanded int          `json:"expanded"`
}

var directions = [8]grid.Point{
	{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1},
	{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1},
}

// StepCost is the cost of moving from tile a to its neighbour b.
func StepCost(g Grid, profile MovementProfile, a, b grid.Point) float64 {
	dist := math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y))
	climb := math.Max(0, UphillPenalty*(g.Elevation(b.X, b.Y)-g.Elevation(a.X, a.Y)))
	return dist + climb + profile.BaseSpeed()/profile.SpeedAt(b.X, b.Y)
}

// FindPath returns the waypoints of the cheapest route from start to goal.
func FindPath(g Grid, start, goal Point, profile MovementProfile) (Path, error) {
	res, err := Search(g, start, goal, profile)
	if err != nil {
		return nil, err
	}
	return res.Path, nil
}

// Search runs A* from the tile containing start to the tile containing goal.
// The returned path begins and ends with the exact requested points; interior
// waypoints are tile centers. Diagonal steps between two obstacles are not
// allowed.
func Search(g Grid, start, goal Point, profile MovementProfile) (Result, error) {
	w, h := g.Width(), g.Height()
	from, to := start.Tile(), goal.Tile()
	if !inBounds(from, w, h) {
		return Result{}, fmt.Errorf("start %v: %w", start, grid.ErrOutOfBounds)
	}
	if !inBounds(to, w, h) {
		return Result{}, fmt.Errorf("goal %v: %w", goal, grid.ErrOutOfBounds)
	}
	if base := profile.BaseSpeed(); base < 0 || math.IsNaN(base) {
		return Result{}, fmt.Errorf("base speed must be non-negative, got %v", base)
	}

	if g.Blocked(to.X, to.Y) {
		return Result{}, ErrNoPath
	}
	if from == to {
		return Result{Path: Path{goal}, Tiles: []grid.Point{to}}, nil
	}

	n := w * h
	index := func(p grid.Point) int { return p.Y*w + p.X }
	gScore := make([]float64, n)
	parent := make([]int, n)
	closed := make([]bool, n)
	for i := range gScore {
		gScore[i] = math.Inf(1)
		parent[i] = -1
	}

	heuristic := func(p grid.Point) float64 {
		return math.Hypot(float64(to.X-p.X), float64(to.Y-p.Y))
	}

	open := &openSet{}
	gScore[index(from)] = 0
	open.push(from, heuristic(from))
	expanded := 0

	for open.Len() > 0 {
		cur := heap.Pop(open).(*node).p
		ci := index(cur)
		if closed[ci] {
			continue
		}
		closed[ci] = true
		expanded++

		if cur == to {
			tiles := reconstruct(parent, ci, w)
			return Result{
				Path:     waypoints(tiles, start, goal),
				Tiles:    tiles,
				Cost:     gScore[ci],
				Expanded: expanded,
			}, nil
		}

		for _, d := range directions {
			nb := grid.Point{X: cur.X + d.X, Y: cur.Y + d.Y}
			if !inBounds(nb, w, h) || g.Blocked(nb.X, nb.Y) {
				continue
			}
			ni := index(nb)
			if closed[ni] {
				continue
			}
			if d.X != 0 && d.Y != 0 && g.Blocked(cur.X+d.X, cur.Y) && g.Blocked(cur.X, cur.Y+d.Y) {
				continue
			}
			if profile.SpeedAt(nb.X, nb.Y) <= 0 {
				continue
			}

			tentative := gScore[ci] + StepCost(g, profile, cur, nb)
			if tentative < gScore[ni] {
				gScore[ni] = tentative
				parent[ni] = ci
				open.push(nb, tentative+heuristic(nb))
			}
		}
	}
	return Result{}, ErrNoPath
}

func inBounds(p grid.Point, w, h int) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h
}

func reconstruct(parent []int, i, width int) []grid.Point {
	var tiles []grid.Point
	for ; i >= 0; i = parent[i] {
		tiles = append(tiles, grid.Point{X: i % width, Y: i / width})
	}
	for l, r := 0, len(tiles)-1; l < r; l, r = l+1, r-1 {
		tiles[l], tiles[r] = tiles[r], tiles[l]
	}
	return tiles
}

func waypoints(tiles []grid.Point, start, goal Point) Path {
	path := make(Path, len(tiles))
	for i, t := range tiles {
		path[i] = Center(t)
	}
	path[0] = start
	path[len(path)-1] = goal
	return path
}

type node struct {
	p   grid.Point
	f   float64
	seq uint64
}

// openSet is a min-heap on f; equal f pops in insertion order.
type openSet struct {
	nodes []*node
	seq   uint64
}

func (o *openSet) Len() int { return len(o.nodes) }

func (o *openSet) Less(i, j int) bool {
	if o.nodes[i].f != o.nodes[j].f {
		return o.nodes[i].f < o.nodes[j].f
	}
	return o.nodes[i].seq < o.nodes[j].seq
}

func (o *openSet) Swap(i, j int) { o.nodes[i], o.nodes[j] = o.nodes[j], o.nodes[i] }

func (o *openSet) Push(x any) { o.nodes = append(o.nodes, x.(*node)) }

func (o *openSet) Pop() any {
	last := len(o.nodes) - 1
	n := o.nodes[last]
	o.nodes[last] = nil
	o.nodes = o.nodes[:last]
	return n
}

func (o *openSet) push(p grid.Point, f float64) {
	o.seq++
	heap.Push(o, &node{p: p, f: f, seq: o.seq})
}

// MaskGrid adapts an elevation field and an obstacle mask to Grid.
type MaskGrid struct {
	heights   *grid.Grid[float64]
	obstacles *grid.Grid[bool]
}

// NewMaskGrid pairs heights and obstacles, which must share dimensions.
func NewMaskGrid(heights *grid.Grid[float64], obstacles *grid.Grid[bool]) (*MaskGrid, error) {
	if heights.Width() != obstacles.Width() || heights.Height() != obstacles.Height() {
		return nil, fmt.Errorf("heights %dx%d and obstacles %dx%d differ",
			heights.Width(), heights.Height(), obstacles.Width(), obstacles.Height())
	}
	return &MaskGrid{heights: heights, obstacles: obstacles}, nil
}

func (m *MaskGrid) Width() int                 { return m.heights.Width() }
func (m *MaskGrid) Height() int                { return m.heights.Height() }
func (m *MaskGrid) Elevation(x, y int) float64 { return m.heights.At(x, y) }
func (m *MaskGrid) Blocked(x, y int) bool      { return m.obstacles.At(x, y) }
