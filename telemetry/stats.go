// Package telemetry summarizes yearly simulation states and writes run
// output (CSV per year, YAML config and metadata snapshots).
package telemetry

import (
	"gonum.org/v1/gonum/stat"

	"github.com/mqln/bisonsim/sim"
)

// YearStats is one exported telemetry row per simulated year.
type YearStats struct {
	RunID              string  `csv:"run_id"`
	Year               int     `csv:"year"`
	TotalPopulation    float64 `csv:"total_population"`
	OccupiedCells      int     `csv:"occupied_cells"`
	PeakCellPopulation float64 `csv:"peak_cell_population"`
	P90CellPopulation  float64 `csv:"p90_cell_population"`
	TotalBiomass       float64 `csv:"total_biomass"`
	MeanLandBiomass    float64 `csv:"mean_land_biomass"`
	MeanSatisfaction   float64 `csv:"mean_satisfaction"`
	TotalFoodDemand    float64 `csv:"total_food_demand"`
}

// Collect reduces one yearly state to its telemetry row.
func Collect(runID string, s sim.State) YearStats {
	pop := s.Bison.Population

	var landBiomass []float64
	for _, v := range s.Biomass.Current.Cells() {
		if v > 0 {
			landBiomass = append(landBiomass, v)
		}
	}
	meanLandBiomass := 0.0
	if len(landBiomass) > 0 {
		meanLandBiomass = stat.Mean(landBiomass, nil)
	}

	// Mean satisfaction over cells that actually demanded food; an empty
	// range means nobody was hungry anywhere.
	var satisfied []float64
	demand := s.Bison.FoodDemand.Cells()
	for i, v := range s.Bison.FoodSatisfaction.Cells() {
		if demand[i] > 0 {
			satisfied = append(satisfied, v)
		}
	}
	meanSatisfaction := 1.0
	if len(satisfied) > 0 {
		meanSatisfaction = stat.Mean(satisfied, nil)
	}

	return YearStats{
		RunID:              runID,
		Year:               s.Year,
		TotalPopulation:    s.TotalPopulation(),
		OccupiedCells:      s.OccupiedCells(),
		PeakCellPopulation: pop.MaxValue(),
		P90CellPopulation:  pop.Quantile(0.9),
		TotalBiomass:       s.Biomass.Current.Sum(),
		MeanLandBiomass:    meanLandBiomass,
		MeanSatisfaction:   meanSatisfaction,
		TotalFoodDemand:    s.Bison.FoodDemand.Sum(),
	}
}
