package grid

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Apply returns a new grid with fn applied to every cell.
func (g *Grid) Apply(fn func(v float64) float64) *Grid {
	out := g.Clone()
	for i, v := range out.cells {
		out.cells[i] = fn(v)
	}
	return out
}

// Zip returns a new grid combining g and other cell by cell. The result
// carries g's cell size. Panics with ErrShape on mismatched dimensions.
func (g *Grid) Zip(other *Grid, fn func(a, b float64) float64) *Grid {
	sameShape(g, other)
	out := g.Clone()
	for i := range out.cells {
		out.cells[i] = fn(g.cells[i], other.cells[i])
	}
	return out
}

// Add returns g + other elementwise.
func (g *Grid) Add(other *Grid) *Grid {
	return g.Zip(other, func(a, b float64) float64 { return a + b })
}

// Sub returns g - other elementwise.
func (g *Grid) Sub(other *Grid) *Grid {
	return g.Zip(other, func(a, b float64) float64 { return a - b })
}

// Mul returns g * other elementwise.
func (g *Grid) Mul(other *Grid) *Grid {
	return g.Zip(other, func(a, b float64) float64 { return a * b })
}

// Div returns g / other elementwise. Cells where other is zero yield zero
// rather than Inf; callers that need a different convention add an epsilon
// to the divisor first.
func (g *Grid) Div(other *Grid) *Grid {
	return g.Zip(other, func(a, b float64) float64 {
		if b == 0 {
			return 0
		}
		return a / b
	})
}

// Min returns the elementwise minimum of g and other.
func (g *Grid) Min(other *Grid) *Grid {
	return g.Zip(other, math.Min)
}

// Max returns the elementwise maximum of g and other.
func (g *Grid) Max(other *Grid) *Grid {
	return g.Zip(other, math.Max)
}

// Scale returns g with every cell multiplied by k.
func (g *Grid) Scale(k float64) *Grid {
	return g.Apply(func(v float64) float64 { return v * k })
}

// AddScalar returns g with k added to every cell.
func (g *Grid) AddScalar(k float64) *Grid {
	return g.Apply(func(v float64) float64 { return v + k })
}

// Clip returns g with every cell limited to [lo, hi]. Cells already in
// range are unchanged.
func (g *Grid) Clip(lo, hi float64) *Grid {
	return g.Apply(func(v float64) float64 {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	})
}

// Sum returns the total of all cells.
func (g *Grid) Sum() float64 {
	return floats.Sum(g.cells)
}

// MaxValue returns the largest cell value.
func (g *Grid) MaxValue() float64 {
	return floats.Max(g.cells)
}

// MinValue returns the smallest cell value.
func (g *Grid) MinValue() float64 {
	return floats.Min(g.cells)
}

// Count returns how many cells satisfy pred.
func (g *Grid) Count(pred func(v float64) bool) int {
	n := 0
	for _, v := range g.cells {
		if pred(v) {
			n++
		}
	}
	return n
}

// Select returns a grid taking ifTrue's cell where pred(mask cell) holds
// and ifFalse's cell otherwise. All three grids must share g's shape; g is
// the mask.
func (g *Grid) Select(pred func(v float64) bool, ifTrue, ifFalse *Grid) *Grid {
	sameShape(g, ifTrue)
	sameShape(g, ifFalse)
	out := g.Clone()
	for i, v := range g.cells {
		if pred(v) {
			out.cells[i] = ifTrue.cells[i]
		} else {
			out.cells[i] = ifFalse.cells[i]
		}
	}
	return out
}

// Shift returns g rolled toroidally by (rowOffset, colOffset): the cell at
// (r, c) of the result holds g's value at (r-rowOffset, c-colOffset),
// wrapped.
func (g *Grid) Shift(rowOffset, colOffset int) *Grid {
	out := New(g.width, g.height, g.cellSizeKm)
	for r := 0; r < g.height; r++ {
		sr := ((r-rowOffset)%g.height + g.height) % g.height
		for c := 0; c < g.width; c++ {
			sc := ((c-colOffset)%g.width + g.width) % g.width
			out.cells[r*g.width+c] = g.cells[sr*g.width+sc]
		}
	}
	return out
}

// Quantile returns the p-quantile (p in [0,1]) of the cell values.
func (g *Grid) Quantile(p float64) float64 {
	sorted := make([]float64, len(g.cells))
	copy(sorted, g.cells)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}
