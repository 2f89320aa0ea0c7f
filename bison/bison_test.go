package bison

import (
	"math"
	"testing"

	"github.com/mqln/bisonsim/config"
	"github.com/mqln/bisonsim/grid"
)

func testBisonConfig() config.BisonConfig {
	return config.BisonConfig{
		BodyMassKg:          700,
		DailyIntakeRate:     0.02,
		MaxGrowthRate:       0.10,
		StarvationThreshold: 0.2,
		MinViableDensity:    0.05,
		PioneerBonus:        0.05,
	}
}

func TestAnnualIntake(t *testing.T) {
	// 700 kg * 0.02/day * 365 days / 1000 = 5.11 tonnes/year.
	got := testBisonConfig().AnnualIntakeTonnes()
	if math.Abs(got-5.11) > 1e-9 {
		t.Errorf("AnnualIntakeTonnes = %v, want 5.11", got)
	}
}

func TestFoodDemandSingleAnimal(t *testing.T) {
	pop := grid.New(3, 3, 1.0)
	pop.Set(1, 1, 1)

	demand := FoodDemand(pop, testBisonConfig())
	if got := demand.At(1, 1); math.Abs(got-5.11) > 1e-9 {
		t.Errorf("demand = %v, want 5.11", got)
	}
	if got := demand.At(0, 0); got != 0 {
		t.Errorf("empty cell demand = %v, want 0", got)
	}
}

func TestFoodSatisfaction(t *testing.T) {
	demand := grid.FromCells(4, 1, 1.0, []float64{0, 10, 10, 10})
	consumed := grid.FromCells(4, 1, 1.0, []float64{0, 0, 5, 20})

	sat := FoodSatisfaction(consumed, demand)

	want := []float64{1, 0, 0.5, 1} // zero demand is trivially satisfied
	for i, v := range sat.Cells() {
		if math.Abs(v-want[i]) > 1e-12 {
			t.Errorf("cell %d = %v, want %v", i, v, want[i])
		}
		if v < 0 || v > 1 {
			t.Errorf("cell %d = %v outside [0,1]", i, v)
		}
	}
}

func TestCarryingCapacity(t *testing.T) {
	harvest := grid.New(1, 1, 1.0).Fill(51.1)

	cc := CarryingCapacity(harvest, testBisonConfig())
	if got := cc.At(0, 0); math.Abs(got-10) > 1e-9 {
		t.Errorf("carrying capacity = %v, want 10", got)
	}
}

func TestUpdatePopulationBounds(t *testing.T) {
	cfg := testBisonConfig()
	pop := grid.FromCells(3, 1, 1.0, []float64{999999, 5, 0})
	cc := grid.FromCells(3, 1, 1.0, []float64{1e9, 10, 10})
	sat := grid.New(3, 1, 1.0).Fill(1)

	next := UpdatePopulation(pop, cc, sat, cfg)
	for i, v := range next.Cells() {
		if v < 0 || v > 1e6 {
			t.Errorf("cell %d = %v, want within [0, 1e6]", i, v)
		}
	}
}

func TestUpdatePopulationStarvationDeclines(t *testing.T) {
	cfg := testBisonConfig()
	pop := grid.FromCells(2, 1, 1.0, []float64{10, 0.01}) // viable and sub-viable
	cc := grid.New(2, 1, 1.0).Fill(100)
	sat := grid.New(2, 1, 1.0) // zero satisfaction everywhere

	next := UpdatePopulation(pop, cc, sat, cfg)

	// Full starvation means growth = -MaxGrowthRate regardless of viability.
	for i, p := range pop.Cells() {
		want := p * (1 - cfg.MaxGrowthRate)
		if got := next.Cells()[i]; math.Abs(got-want) > 1e-12 {
			t.Errorf("cell %d = %v, want %v", i, got, want)
		}
	}
}

func TestUpdatePopulationAlleeCutoff(t *testing.T) {
	cfg := testBisonConfig()
	// Below MinViableDensity but perfectly fed: no growth path is open.
	pop := grid.New(1, 1, 1.0).Fill(0.01)
	cc := grid.New(1, 1, 1.0).Fill(100)
	sat := grid.New(1, 1, 1.0).Fill(1)

	next := UpdatePopulation(pop, cc, sat, cfg)
	if got := next.At(0, 0); got != 0.01 {
		t.Errorf("sub-viable fed cell = %v, want unchanged 0.01", got)
	}
}

func TestUpdatePopulationPioneerGrowth(t *testing.T) {
	cfg := testBisonConfig()
	// Viable, far below capacity, fully fed: pioneer path applies.
	pop := grid.New(1, 1, 1.0).Fill(1)
	cc := grid.New(1, 1, 1.0).Fill(100)
	sat := grid.New(1, 1, 1.0).Fill(1)

	next := UpdatePopulation(pop, cc, sat, cfg)

	ratio := 1.0 / (100 + 1e-10)
	capacityBonus := 0.3 // clip(100/10, 0, 0.3)
	wantGrowth := (cfg.MaxGrowthRate + cfg.PioneerBonus + capacityBonus) * (1 - ratio)
	want := 1 * (1 + wantGrowth)
	if got := next.At(0, 0); math.Abs(got-want) > 1e-12 {
		t.Errorf("pioneer cell = %v, want %v", got, want)
	}
}

func TestUpdatePopulationNearCapacityLosesPioneerBonus(t *testing.T) {
	cfg := testBisonConfig()
	// capacityRatio 0.5 >= 0.3 disables the configured pioneer bonus but
	// keeps the capacity bonus.
	pop := grid.New(1, 1, 1.0).Fill(50)
	cc := grid.New(1, 1, 1.0).Fill(100)
	sat := grid.New(1, 1, 1.0).Fill(1)

	next := UpdatePopulation(pop, cc, sat, cfg)

	ratio := 50 / (100 + 1e-10)
	wantGrowth := (cfg.MaxGrowthRate + 0.3) * (1 - ratio)
	want := 50 * (1 + wantGrowth)
	if got := next.At(0, 0); math.Abs(got-want) > 1e-9 {
		t.Errorf("near-capacity cell = %v, want %v", got, want)
	}
}
