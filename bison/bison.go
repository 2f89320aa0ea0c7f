// Package bison implements the consumer population model: per-cell food
// demand and satisfaction, carrying capacity, the density- and
// satisfaction-dependent growth rule, and the release initialization.
package bison

import (
	"github.com/mqln/bisonsim/config"
	"github.com/mqln/bisonsim/grid"
)

// epsilon guards the capacity ratio against division by zero where a cell's
// carrying capacity is exactly zero.
const epsilon = 1e-10

// maxCellPopulation caps a single cell after growth.
const maxCellPopulation = 1e6

// State bundles the per-year population grids. Population is the only grid
// that persists across years; the rest are step-local diagnostics.
type State struct {
	Population       *grid.Grid
	FoodDemand       *grid.Grid
	FoodSatisfaction *grid.Grid
	CarryingCapacity *grid.Grid
}

// FoodDemand returns each cell's yearly forage demand in tonnes.
func FoodDemand(population *grid.Grid, cfg config.BisonConfig) *grid.Grid {
	return population.Scale(cfg.AnnualIntakeTonnes())
}

// FoodSatisfaction returns consumed/demand clipped to [0,1] per cell. Cells
// with zero demand hold no animals and are trivially satisfied (exactly 1).
func FoodSatisfaction(consumed, demand *grid.Grid) *grid.Grid {
	return demand.Zip(consumed, func(d, c float64) float64 {
		if d == 0 {
			return 1
		}
		s := c / d
		if s < 0 {
			return 0
		}
		if s > 1 {
			return 1
		}
		return s
	})
}

// CarryingCapacity returns the population density each cell's sustainable
// harvest can support.
func CarryingCapacity(sustainableHarvest *grid.Grid, cfg config.BisonConfig) *grid.Grid {
	return sustainableHarvest.Scale(1 / cfg.AnnualIntakeTonnes())
}

// UpdatePopulation applies one year of growth or decline per cell.
//
// The rule is a logistic-growth variant gated by an Allee threshold and a
// resource-satisfaction multiplier. Below the starvation threshold the cell
// declines regardless of viability; above it, a sub-viable cell never grows,
// and a viable cell far below capacity earns the pioneer bonus on top of a
// capacity bonus.
func UpdatePopulation(population, carryingCapacity, foodSatisfaction *grid.Grid, cfg config.BisonConfig) *grid.Grid {
	pop := population.Cells()
	cc := carryingCapacity.Cells()
	sat := foodSatisfaction.Cells()
	out := make([]float64, len(pop))

	for i, p := range pop {
		ratio := p / (cc[i] + epsilon)
		viable := p >= cfg.MinViableDensity

		capacityBonus := clamp(cc[i]/10, 0, 0.3)
		pioneer := capacityBonus
		if viable && ratio < 0.3 {
			pioneer = cfg.PioneerBonus + capacityBonus
		}

		var growth float64
		if sat[i] > cfg.StarvationThreshold {
			if viable {
				growth = (cfg.MaxGrowthRate + pioneer) * sat[i] * (1 - ratio)
			}
		} else {
			growth = -cfg.MaxGrowthRate * (1 - sat[i]/cfg.StarvationThreshold)
		}

		growth = clamp(growth, -0.5, 0.9)
		out[i] = clamp(p*(1+growth), 0, maxCellPopulation)
	}

	return grid.FromCells(population.Width(), population.Height(), population.CellSizeKm(), out)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
