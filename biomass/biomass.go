// Package biomass implements the forage resource model: how much of the
// standing crop the herd can actually use, and how the crop regrows net of
// consumption.
package biomass

import (
	"math"

	"github.com/mqln/bisonsim/config"
	"github.com/mqln/bisonsim/grid"
)

// State bundles the per-year resource grids. Current is the only grid
// carried across years as ground truth; Max is the fixed ceiling set at
// setup, and the two derived grids are recomputed from Current every year.
type State struct {
	Current            *grid.Grid
	Max                *grid.Grid
	Digestible         *grid.Grid
	SustainableHarvest *grid.Grid
}

// Digestible returns the biologically usable fraction of the standing crop.
func Digestible(current *grid.Grid, cfg config.BiomassConfig) *grid.Grid {
	return current.Scale(cfg.DigestibilityFactor)
}

// SustainableHarvest returns the share of digestible forage that can be
// consumed without depleting the resource.
func SustainableHarvest(digestible *grid.Grid, cfg config.BiomassConfig) *grid.Grid {
	return digestible.Scale(cfg.UtilizationFactor)
}

// MaxBiomass fixes the regrowth ceiling from the initial distribution.
// Called once at setup; the ceiling never changes afterwards.
func MaxBiomass(initial *grid.Grid, cfg config.BiomassConfig) *grid.Grid {
	return initial.Scale(cfg.MaxBiomassScaling)
}

// Update applies one year of logistic-style regrowth net of consumption:
//
//	next = clip(current + (max - current) * growthFactor - consumed, 0, +inf)
//
// Regrowth is negative where current overshoots max, which dampens the
// overshoot rather than erroring. The result is never negative.
func Update(current, max, consumed *grid.Grid, cfg config.BiomassConfig) *grid.Grid {
	regrowth := max.Sub(current).Scale(cfg.AnnualGrowthFactor)
	return current.Add(regrowth).Sub(consumed).Clip(0, math.Inf(1))
}

// NewState packages current and max with the derived grids for the year.
func NewState(current, max *grid.Grid, cfg config.BiomassConfig) State {
	digestible := Digestible(current, cfg)
	return State{
		Current:            current,
		Max:                max,
		Digestible:         digestible,
		SustainableHarvest: SustainableHarvest(digestible, cfg),
	}
}
