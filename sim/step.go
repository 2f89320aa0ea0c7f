package sim

import (
	"github.com/mqln/bisonsim/biomass"
	"github.com/mqln/bisonsim/bison"
	"github.com/mqln/bisonsim/config"
	"github.com/mqln/bisonsim/grid"
	"github.com/mqln/bisonsim/migration"
	"github.com/mqln/bisonsim/rng"
)

// Step advances the simulation one year: a pure transition from prev to the
// next year's State. land marks water at values <= 0 for migration; nil
// disables water blocking.
//
// Stage order is fixed: harvest, demand, consumption, satisfaction,
// carrying capacity, biomass update, attractiveness, migration, growth.
// Each stage reads only the previous year's grids or this year's already
// finalized upstream grids; no stage reads its own output. RNG draws happen
// in exactly this order, so a seeded run replays bit for bit.
func Step(prev State, cfg *config.Config, land *grid.Grid, r *rng.RNG) State {
	resource := biomass.NewState(prev.Biomass.Current, prev.Biomass.Max, cfg.Biomass)

	demand := bison.FoodDemand(prev.Bison.Population, cfg.Bison)
	consumed := resource.SustainableHarvest.Min(demand)
	satisfaction := bison.FoodSatisfaction(consumed, demand)
	capacity := bison.CarryingCapacity(resource.SustainableHarvest, cfg.Bison)

	nextBiomass := biomass.Update(resource.Current, resource.Max, consumed, cfg.Biomass)

	attractiveness := migration.Attractiveness(capacity, cfg.Migration, r)
	migrated := migration.Migrate(prev.Bison.Population, attractiveness, land, cfg.Migration, r)
	grown := bison.UpdatePopulation(migrated, capacity, satisfaction, cfg.Bison)

	return State{
		Year:    prev.Year + 1,
		Biomass: biomass.NewState(nextBiomass, prev.Biomass.Max.Clone(), cfg.Biomass),
		Bison: bison.State{
			Population:       grown,
			FoodDemand:       demand,
			FoodSatisfaction: satisfaction,
			CarryingCapacity: capacity,
		},
	}
}

// initialState builds year 0 from the initial biomass distribution and a
// freshly released herd. Demand and carrying capacity are populated as
// diagnostics; nothing has been consumed yet, so satisfaction is uniformly 1.
func initialState(initial *grid.Grid, population *grid.Grid, cfg *config.Config) State {
	max := biomass.MaxBiomass(initial, cfg.Biomass)
	resource := biomass.NewState(initial.Clone(), max, cfg.Biomass)

	satisfaction := grid.New(initial.Width(), initial.Height(), initial.CellSizeKm()).Fill(1)

	return State{
		Year:    0,
		Biomass: resource,
		Bison: bison.State{
			Population:       population,
			FoodDemand:       bison.FoodDemand(population, cfg.Bison),
			FoodSatisfaction: satisfaction,
			CarryingCapacity: bison.CarryingCapacity(resource.SustainableHarvest, cfg.Bison),
		},
	}
}
