package bison

import (
	"math"
	"testing"

	"github.com/mqln/bisonsim/config"
	"github.com/mqln/bisonsim/grid"
	"github.com/mqln/bisonsim/rng"
)

func TestReleaseCenter(t *testing.T) {
	tests := []struct {
		name             string
		cfg              config.ReleaseConfig
		wantRow, wantCol int
	}{
		{"upper_left", config.ReleaseConfig{Pattern: config.PatternUpperLeft}, 0, 0},
		{"bottom_left", config.ReleaseConfig{Pattern: config.PatternBottomLeft}, 9, 0},
		{"central", config.ReleaseConfig{Pattern: config.PatternCentral}, 5, 10},
		{"four_corners collapses to central", config.ReleaseConfig{Pattern: config.PatternFourCorners}, 5, 10},
		{"custom", config.ReleaseConfig{
			Pattern:           config.PatternCustom,
			CustomCoordinates: []config.Coordinate{{Row: 3, Col: 7}, {Row: 1, Col: 1}},
		}, 3, 7},
		{"custom without coordinates falls back to center", config.ReleaseConfig{Pattern: config.PatternCustom}, 5, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col := ReleaseCenter(tt.cfg, 20, 10)
			if row != tt.wantRow || col != tt.wantCol {
				t.Errorf("ReleaseCenter = (%d,%d), want (%d,%d)", row, col, tt.wantRow, tt.wantCol)
			}
		})
	}
}

func TestInitializeZeroPopulation(t *testing.T) {
	resource := grid.New(10, 10, 1.0).Fill(100)

	for _, pattern := range []string{
		config.PatternUpperLeft, config.PatternBottomLeft,
		config.PatternCentral, config.PatternFourCorners, config.PatternCustom,
	} {
		cfg := config.ReleaseConfig{Pattern: pattern, TotalPopulation: 0, ReleaseRadiusCells: 5}
		pop := Initialize(resource, cfg, rng.New(1))
		if got := pop.Sum(); got != 0 {
			t.Errorf("pattern %s: sum = %v, want 0", pattern, got)
		}
	}
}

func TestInitializeAllWaterReturnsZeroGrid(t *testing.T) {
	resource := grid.New(10, 10, 1.0) // everything at 0 = water

	cfg := config.ReleaseConfig{Pattern: config.PatternCentral, TotalPopulation: 50, ReleaseRadiusCells: 4}
	pop := Initialize(resource, cfg, rng.New(1))
	if got := pop.Sum(); got != 0 {
		t.Errorf("sum = %v, want 0 when no land is in range", got)
	}
}

func TestInitializeConservesTotal(t *testing.T) {
	resource := grid.New(20, 20, 1.0).Fill(100)

	cfg := config.ReleaseConfig{Pattern: config.PatternCentral, TotalPopulation: 137, ReleaseRadiusCells: 6}
	pop := Initialize(resource, cfg, rng.New(99))
	if got := pop.Sum(); got != 137 {
		t.Errorf("sum = %v, want exactly 137", got)
	}
}

func TestInitializeStaysWithinRadiusAndOnLand(t *testing.T) {
	resource := grid.New(20, 20, 1.0).Fill(100)
	// Water stripe through the release area.
	for row := 0; row < 20; row++ {
		resource.Set(row, 10, 0)
	}

	cfg := config.ReleaseConfig{Pattern: config.PatternCentral, TotalPopulation: 80, ReleaseRadiusCells: 5}
	pop := Initialize(resource, cfg, rng.New(5))

	centerRow, centerCol := 10, 10
	for row := 0; row < 20; row++ {
		for col := 0; col < 20; col++ {
			v := pop.At(row, col)
			if v == 0 {
				continue
			}
			d := math.Hypot(float64(row-centerRow), float64(col-centerCol))
			if d > 5 {
				t.Errorf("population %v at (%d,%d), distance %v outside radius", v, row, col, d)
			}
			if resource.At(row, col) <= 0 {
				t.Errorf("population %v placed on water at (%d,%d)", v, row, col)
			}
		}
	}
}

func TestInitializeDeterministic(t *testing.T) {
	resource := grid.New(20, 20, 1.0).Fill(100)
	cfg := config.ReleaseConfig{Pattern: config.PatternCentral, TotalPopulation: 60, ReleaseRadiusCells: 5}

	a := Initialize(resource, cfg, rng.New(7))
	b := Initialize(resource, cfg, rng.New(7))
	for i, v := range a.Cells() {
		if v != b.Cells()[i] {
			t.Fatalf("cell %d differs between identically seeded runs: %v != %v", i, v, b.Cells()[i])
		}
	}
}

func TestSuggestRadius(t *testing.T) {
	biomassCfg := config.BiomassConfig{
		DigestibilityFactor: 1.0,
		AnnualGrowthFactor:  0.4,
		UtilizationFactor:   0.5,
		MaxBiomassScaling:   1.0,
	}
	bisonCfg := testBisonConfig()

	t.Run("clamped to minimum", func(t *testing.T) {
		rich := grid.New(40, 40, 1.0).Fill(1000)
		if got := SuggestRadius(rich, 20, 20, 10, biomassCfg, bisonCfg); got != 30 {
			t.Errorf("radius = %d, want floor 30", got)
		}
	})

	t.Run("clamped to maximum", func(t *testing.T) {
		poor := grid.New(40, 40, 1.0).Fill(0.001)
		if got := SuggestRadius(poor, 20, 20, 100000, biomassCfg, bisonCfg); got != 300 {
			t.Errorf("radius = %d, want ceiling 300", got)
		}
	})

	t.Run("all-water window still yields a radius", func(t *testing.T) {
		water := grid.New(40, 40, 1.0)
		got := SuggestRadius(water, 20, 20, 100, biomassCfg, bisonCfg)
		if got < 30 || got > 300 {
			t.Errorf("radius = %d, want within [30, 300]", got)
		}
	})
}
