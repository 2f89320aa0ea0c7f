package bison

import (
	"math"

	"github.com/mqln/bisonsim/config"
	"github.com/mqln/bisonsim/grid"
	"github.com/mqln/bisonsim/rng"
)

// candidate is a land cell eligible for release placement.
type candidate struct {
	row, col int
	weight   float64
}

// ReleaseCenter resolves a release pattern to a center cell. The
// four_corners pattern collapses to central placement; custom uses the
// first supplied coordinate or falls back to center.
func ReleaseCenter(cfg config.ReleaseConfig, width, height int) (int, int) {
	switch cfg.Pattern {
	case config.PatternUpperLeft:
		return 0, 0
	case config.PatternBottomLeft:
		return height - 1, 0
	case config.PatternCustom:
		if len(cfg.CustomCoordinates) > 0 {
			c := cfg.CustomCoordinates[0]
			return c.Row, c.Col
		}
	}
	return height / 2, width / 2
}

// Initialize places cfg.TotalPopulation animals into land cells within
// cfg.ReleaseRadiusCells of the pattern's center.
//
// Candidates are enumerated row-major and weighted by inverse distance
// 1/(1+d). A single left-to-right pass draws each cell's share as a Poisson
// sample clamped to the remaining head count; any remainder from Poisson
// underdraw is assigned one head at a time to uniformly random candidates.
//
// Zero eligible cells is not an error: the result is an all-zero grid and
// the host decides how to surface that.
func Initialize(resource *grid.Grid, cfg config.ReleaseConfig, r *rng.RNG) *grid.Grid {
	population := grid.New(resource.Width(), resource.Height(), resource.CellSizeKm())
	if cfg.TotalPopulation <= 0 {
		return population
	}

	centerRow, centerCol := ReleaseCenter(cfg, resource.Width(), resource.Height())
	radius := cfg.ReleaseRadiusCells

	var candidates []candidate
	totalWeight := 0.0
	for row := maxInt(0, centerRow-radius); row <= minInt(resource.Height()-1, centerRow+radius); row++ {
		for col := maxInt(0, centerCol-radius); col <= minInt(resource.Width()-1, centerCol+radius); col++ {
			dr := float64(row - centerRow)
			dc := float64(col - centerCol)
			d := math.Sqrt(dr*dr + dc*dc)
			if d > float64(radius) || resource.At(row, col) <= 0 {
				continue
			}
			w := 1 / (1 + d)
			candidates = append(candidates, candidate{row: row, col: col, weight: w})
			totalWeight += w
		}
	}
	if len(candidates) == 0 {
		return population
	}

	remaining := cfg.TotalPopulation
	for _, c := range candidates {
		expected := math.Max(0.5, c.weight/totalWeight*float64(cfg.TotalPopulation))
		n := r.Poisson(expected)
		if n > remaining {
			n = remaining
		}
		population.Set(c.row, c.col, float64(n))
		remaining -= n
	}

	// Poisson underdraw leaves a remainder; top it up one head at a time.
	for remaining > 0 {
		c := candidates[r.Integer(0, len(candidates))]
		population.Set(c.row, c.col, population.At(c.row, c.col)+1)
		remaining--
	}

	return population
}

// SuggestRadius derives a release radius from local habitat quality around
// the release point: it samples the mean land biomass in a 50-cell window,
// converts it to an average carrying capacity, and sizes the release area
// for 80% occupancy with a floor of three cells per head. The result is
// clamped to [30, 300] cells. Hosts use this when the configured radius is
// zero.
func SuggestRadius(resource *grid.Grid, row, col, totalPopulation int, biomassCfg config.BiomassConfig, bisonCfg config.BisonConfig) int {
	const sampleRadius = 50

	sum := 0.0
	land := 0
	for r := maxInt(0, row-sampleRadius); r < minInt(resource.Height(), row+sampleRadius); r++ {
		for c := maxInt(0, col-sampleRadius); c < minInt(resource.Width(), col+sampleRadius); c++ {
			if v := resource.At(r, c); v > 0 {
				sum += v
				land++
			}
		}
	}

	avgCapacity := 0.1
	if land > 0 {
		avgCapacity = (sum / float64(land)) * biomassCfg.UtilizationFactor / bisonCfg.AnnualIntakeTonnes()
	}

	const targetRatio = 0.8
	cellsNeeded := 2000.0
	if avgCapacity > 0 {
		cellsNeeded = float64(totalPopulation) / (avgCapacity * targetRatio)
	}
	if floor := float64(totalPopulation * 3); cellsNeeded < floor {
		cellsNeeded = floor
	}

	radius := int(math.Sqrt(cellsNeeded / 3.14))
	if radius < 30 {
		radius = 30
	}
	if radius > 300 {
		radius = 300
	}
	return radius
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
