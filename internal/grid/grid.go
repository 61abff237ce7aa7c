// Package grid provides bounds-checked row-major 2D storage shared by every
// layer of a generated world.
package grid

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned (or panicked with, from At/Set) when a coordinate
// falls outside the grid. Coordinates are never clamped.
var ErrOutOfBounds = errors.New("coordinate out of bounds")

// Point is an integer grid coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Orthogonal are the 4-connected neighbor offsets in a fixed order.
var Orthogonal = [4]Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// Grid is a fixed-size 2D array stored in row-major order.
type Grid[T any] struct {
	width  int
	height int
	cells  []T
}

// New allocates a width x height grid of zero values.
func New[T any](width, height int) *Grid[T] {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("grid: negative dimensions %dx%d", width, height))
	}
	return &Grid[T]{
		width:  width,
		height: height,
		cells:  make([]T, width*height),
	}
}

// Filled allocates a grid with every cell set to v.
func Filled[T any](width, height int, v T) *Grid[T] {
	g := New[T](width, height)
	for i := range g.cells {
		g.cells[i] = v
	}
	return g
}

// Width returns the number of columns.
func (g *Grid[T]) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid[T]) Height() int { return g.height }

// Len returns the number of cells.
func (g *Grid[T]) Len() int { return len(g.cells) }

// InBounds reports whether (x, y) addresses a cell.
func (g *Grid[T]) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// OnBorder reports whether (x, y) lies on the outermost ring of cells.
func (g *Grid[T]) OnBorder(x, y int) bool {
	return x == 0 || y == 0 || x == g.width-1 || y == g.height-1
}

func (g *Grid[T]) boundsError(x, y int) error {
	return fmt.Errorf("%w: (%d,%d) in %dx%d grid", ErrOutOfBounds, x, y, g.width, g.height)
}

// Get returns the cell at (x, y) or ErrOutOfBounds.
func (g *Grid[T]) Get(x, y int) (T, error) {
	if !g.InBounds(x, y) {
		var zero T
		return zero, g.boundsError(x, y)
	}
	return g.cells[y*g.width+x], nil
}

// At returns the cell at (x, y) and panics with ErrOutOfBounds otherwise.
func (g *Grid[T]) At(x, y int) T {
	if !g.InBounds(x, y) {
		panic(g.boundsError(x, y))
	}
	return g.cells[y*g.width+x]
}

// Set stores v at (x, y) and panics with ErrOutOfBounds otherwise.
func (g *Grid[T]) Set(x, y int, v T) {
	if !g.InBounds(x, y) {
		panic(g.boundsError(x, y))
	}
	g.cells[y*g.width+x] = v
}

// Each calls fn for every cell in row-major order.
func (g *Grid[T]) Each(fn func(x, y int, v T)) {
	for i, v := range g.cells {
		fn(i%g.width, i/g.width, v)
	}
}

// Values returns the backing slice. Callers must not retain it across a
// snapshot replacement.
func (g *Grid[T]) Values() []T { return g.cells }

// Clone returns a deep copy of the cell storage.
func (g *Grid[T]) Clone() *Grid[T] {
	c := &Grid[T]{width: g.width, height: g.height, cells: make([]T, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Equal reports whether two comparable grids have identical size and cells.
func Equal[T comparable](a, b *Grid[T]) bool {
	if a.width != b.width || a.height != b.height {
		return false
	}
	for i := range a.cells {
		if a.cells[i] != b.cells[i] {
			return false
		}
	}
	return true
}
