// Package grid provides the rectangular numeric field shared by every part
// of the simulation, plus the elementwise algebra the models are written in.
package grid

import "fmt"

// Error is the panic value raised on contract violations (bad coordinates,
// shape mismatches). These are programmer errors, not runtime conditions,
// so grid follows the gonum/mat convention of panicking with a typed value.
type Error struct {
	msg string
}

func (e Error) Error() string { return e.msg }

// ErrShape is raised when a binary operation receives grids of differing
// width or height.
var ErrShape = Error{msg: "grid: dimension mismatch"}

// Grid is a rectangular field of float64 cells with a physical cell size.
// Cells are stored row-major and addressed as (row, col) in
// [0,height) x [0,width). Width, height and cell size are fixed at creation.
type Grid struct {
	width, height int
	cellSizeKm    float64
	cells         []float64
}

// New allocates a zero-filled grid.
func New(width, height int, cellSizeKm float64) *Grid {
	if width <= 0 || height <= 0 {
		panic(Error{msg: fmt.Sprintf("grid: invalid dimensions %dx%d", width, height)})
	}
	return &Grid{
		width:      width,
		height:     height,
		cellSizeKm: cellSizeKm,
		cells:      make([]float64, width*height),
	}
}

// FromCells builds a grid from row-major cell values. The slice is copied.
func FromCells(width, height int, cellSizeKm float64, cells []float64) *Grid {
	if len(cells) != width*height {
		panic(Error{msg: fmt.Sprintf("grid: %d cells for %dx%d grid", len(cells), width, height)})
	}
	g := New(width, height, cellSizeKm)
	copy(g.cells, cells)
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// CellSizeKm returns the physical size of one cell edge in kilometres.
func (g *Grid) CellSizeKm() float64 { return g.cellSizeKm }

// Cells exposes the row-major backing slice for read-only iteration.
func (g *Grid) Cells() []float64 { return g.cells }

func (g *Grid) index(row, col int) int {
	if row < 0 || row >= g.height || col < 0 || col >= g.width {
		panic(Error{msg: fmt.Sprintf("grid: coordinate (%d,%d) outside %dx%d grid", row, col, g.height, g.width)})
	}
	return row*g.width + col
}

// At returns the value at (row, col). Panics on out-of-range coordinates;
// it never clamps.
func (g *Grid) At(row, col int) float64 {
	return g.cells[g.index(row, col)]
}

// Set stores v at (row, col). Panics on out-of-range coordinates.
func (g *Grid) Set(row, col int, v float64) {
	g.cells[g.index(row, col)] = v
}

// Clone returns an independent copy. Every yearly transition clones before
// mutating so no state's grids alias another year's.
func (g *Grid) Clone() *Grid {
	return FromCells(g.width, g.height, g.cellSizeKm, g.cells)
}

// Fill sets every cell to v and returns g.
func (g *Grid) Fill(v float64) *Grid {
	for i := range g.cells {
		g.cells[i] = v
	}
	return g
}

// sameShape panics with ErrShape unless a and b have identical dimensions.
// Cell size is carried along but deliberately not compared.
func sameShape(a, b *Grid) {
	if a.width != b.width || a.height != b.height {
		panic(ErrShape)
	}
}
