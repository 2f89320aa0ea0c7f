// Package migration redistributes population along a fixed catalogue of
// direction offsets, weighted by distance decay and the local
// attractiveness gradient.
package migration

import (
	"math"

	"github.com/mqln/bisonsim/config"
	"github.com/mqln/bisonsim/grid"
	"github.com/mqln/bisonsim/rng"
)

// offset is one candidate movement direction with its precomputed length.
type offset struct {
	dRow, dCol int
	distance   float64
}

func makeOffsets(pairs [][2]int) []offset {
	offs := make([]offset, len(pairs))
	for i, p := range pairs {
		offs[i] = offset{
			dRow:     p[0],
			dCol:     p[1],
			distance: math.Hypot(float64(p[0]), float64(p[1])),
		}
	}
	return offs
}

// The catalogue is tiered to population maturity: small founder groups
// spread locally, established herds can relocate across longer distances
// in one year.
var (
	// 8 adjacent offsets plus 8 at magnitude ~2, always included.
	baseOffsets = makeOffsets([][2]int{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
		{-2, 0}, {2, 0}, {0, -2}, {0, 2},
		{-2, -2}, {-2, 2}, {2, -2}, {2, 2},
	})

	// Magnitude 5 (axis) and ~5.66 (diagonal), for total population > 30.
	herdOffsets = makeOffsets([][2]int{
		{-5, 0}, {5, 0}, {0, -5}, {0, 5},
		{-4, -4}, {-4, 4}, {4, -4}, {4, 4},
	})

	// Magnitude 8-10, for a densest cell above 8.
	rangeOffsets = makeOffsets([][2]int{
		{-8, 0}, {8, 0}, {0, -8}, {0, 8},
		{-7, -7}, {-7, 7}, {7, -7}, {7, 7},
	})
)

// herdThreshold and densityThreshold gate the longer-range offset tiers.
const (
	herdThreshold    = 30.0
	densityThreshold = 8.0
)

// catalogue returns the direction offsets in their fixed processing order.
func catalogue(totalPopulation, densestCell float64) []offset {
	offs := baseOffsets
	if totalPopulation > herdThreshold {
		offs = append(append([]offset{}, offs...), herdOffsets...)
	}
	if densestCell > densityThreshold {
		offs = append(append([]offset{}, offs...), rangeOffsets...)
	}
	return offs
}

// Attractiveness scores each cell for migration preference: carrying
// capacity weighted by food preference plus one independent noise draw per
// cell, clipped to [0, 1000]. Cells are visited row-major so the RNG stream
// is well defined.
func Attractiveness(carryingCapacity *grid.Grid, cfg config.MigrationConfig, r *rng.RNG) *grid.Grid {
	sigma := math.Min(0.15, cfg.MovementNoise*0.01)
	return carryingCapacity.Apply(func(cc float64) float64 {
		return clamp(cc*cfg.FoodPreferenceWeight+r.Normal(0, sigma), 0, 1000)
	})
}

// DiffusionRate converts the configured annual range into a per-direction
// dispersal fraction, capped at 0.95. When no range is configured the base
// diffusion rate applies directly.
func DiffusionRate(cfg config.MigrationConfig, cellSizeKm float64) float64 {
	if cfg.AnnualMigrationKm > 0 {
		return math.Min(0.95, cfg.AnnualMigrationKm/cellSizeKm/10)
	}
	return math.Min(0.95, cfg.DiffusionRate)
}

// Migrate redistributes population along the direction catalogue and
// returns the new population grid. landMask marks water at values <= 0; a
// nil mask disables water blocking.
//
// Directions are processed sequentially in catalogue order, each
// accumulating into the same output grid, so later directions see earlier
// directions' moves. The result is order-dependent by construction; the
// catalogue order is fixed and must not be reordered, or seeded runs stop
// reproducing. Noise is drawn only after a target passes the bounds and
// water checks, which keeps the stream well defined for a given landscape.
func Migrate(population, attractiveness, landMask *grid.Grid, cfg config.MigrationConfig, r *rng.RNG) *grid.Grid {
	out := population.Clone()
	height, width := population.Height(), population.Width()

	diffusion := DiffusionRate(cfg, population.CellSizeKm())
	maxRate := math.Min(0.9, diffusion)

	for _, off := range catalogue(population.Sum(), population.MaxValue()) {
		distanceFactor := 1 / math.Pow(off.distance, 0.8)

		for row := 0; row < height; row++ {
			for col := 0; col < width; col++ {
				targetRow, targetCol := row+off.dRow, col+off.dCol
				if cfg.WrapBoundaries {
					targetRow = ((targetRow % height) + height) % height
					targetCol = ((targetCol % width) + width) % width
				} else if targetRow < 0 || targetRow >= height || targetCol < 0 || targetCol >= width {
					continue
				}
				if landMask != nil && landMask.At(targetRow, targetCol) <= 0 {
					continue
				}

				attrDiff := clamp(attractiveness.At(targetRow, targetCol)-attractiveness.At(row, col), -100, 100)
				attrDiff += r.Normal(0, 0.15)

				rate := clamp(diffusion*distanceFactor*math.Max(-0.1, attrDiff), 0, maxRate)
				if rate == 0 {
					continue
				}

				source := out.At(row, col)
				moved := source * rate
				out.Set(row, col, math.Max(0, source-moved))
				out.Set(targetRow, targetCol, math.Max(0, out.At(targetRow, targetCol)+moved))
			}
		}
	}

	return out
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
