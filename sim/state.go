// Package sim composes the biomass, bison, and migration models into the
// yearly stepping orchestrator and the run state machine around it.
package sim

import (
	"github.com/google/uuid"

	"github.com/mqln/bisonsim/biomass"
	"github.com/mqln/bisonsim/bison"
)

// State is one per-year snapshot of the simulation. It is immutable once
// produced: every transition clones before mutating, so no grid in a State
// aliases a grid in another year's State.
type State struct {
	Year    int
	Biomass biomass.State
	Bison   bison.State
}

// TotalPopulation returns the herd size summed over all cells.
func (s State) TotalPopulation() float64 {
	return s.Bison.Population.Sum()
}

// OccupiedCells returns how many cells hold a meaningful population.
func (s State) OccupiedCells() int {
	return s.Bison.Population.Count(func(v float64) bool { return v > 0.1 })
}

// Metadata describes a completed or in-progress run.
type Metadata struct {
	RunID      uuid.UUID `yaml:"run_id"`
	TotalYears int       `yaml:"total_years"`
	Width      int       `yaml:"width"`
	Height     int       `yaml:"height"`
	CellSizeKm float64   `yaml:"cell_size_km"`
	Seed       uint32    `yaml:"seed"`
}
