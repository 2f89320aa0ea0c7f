// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters. A loaded Config is
// frozen for the duration of a run; the engine never mutates it.
type Config struct {
	Years     int             `yaml:"years"`
	Seed      uint32          `yaml:"seed"` // 0 = host derives one from the clock
	Biomass   BiomassConfig   `yaml:"biomass"`
	Bison     BisonConfig     `yaml:"bison"`
	Migration MigrationConfig `yaml:"migration"`
	Release   ReleaseConfig   `yaml:"release"`
	Terrain   TerrainConfig   `yaml:"terrain"`
}

// BiomassConfig holds the forage resource parameters.
type BiomassConfig struct {
	DigestibilityFactor float64 `yaml:"digestibility_factor"` // Fraction of raw forage that is digestible
	AnnualGrowthFactor  float64 `yaml:"annual_growth_factor"` // Regrowth per year as fraction of the gap to max
	UtilizationFactor   float64 `yaml:"utilization_factor"`   // Fraction of digestible forage harvestable sustainably
	MaxBiomassScaling   float64 `yaml:"max_biomass_scaling"`  // Ceiling as fraction of the initial distribution
}

// BisonConfig holds the consumer population parameters.
type BisonConfig struct {
	BodyMassKg          float64 `yaml:"body_mass_kg"`
	DailyIntakeRate     float64 `yaml:"daily_intake_rate"`    // Intake per day as fraction of body mass
	MaxGrowthRate       float64 `yaml:"max_growth_rate"`      // Per-year growth ceiling under ideal conditions
	StarvationThreshold float64 `yaml:"starvation_threshold"` // Food satisfaction below this drives decline
	MinViableDensity    float64 `yaml:"min_viable_density"`   // Allee cutoff: no growth below this density
	PioneerBonus        float64 `yaml:"pioneer_bonus"`        // Extra growth for viable cells far below capacity
}

// AnnualIntakeTonnes returns the yearly food demand of one animal in tonnes.
func (c BisonConfig) AnnualIntakeTonnes() float64 {
	return c.BodyMassKg * c.DailyIntakeRate * 365 / 1000
}

// MigrationConfig holds the dispersal parameters.
type MigrationConfig struct {
	AnnualMigrationKm    float64 `yaml:"annual_migration_km"`    // Target yearly range; 0 falls back to diffusion_rate
	DiffusionRate        float64 `yaml:"diffusion_rate"`         // Base dispersal fraction when no range is given
	MovementNoise        float64 `yaml:"movement_noise"`         // Attractiveness noise scale (sigma = noise * 0.01, capped 0.15)
	FoodPreferenceWeight float64 `yaml:"food_preference_weight"` // Carrying-capacity weight in attractiveness
	WrapBoundaries       bool    `yaml:"wrap_boundaries"`        // Toroidal movement instead of edge rejection
}

// Release patterns supported by ReleaseConfig.
const (
	PatternUpperLeft   = "upper_left"
	PatternBottomLeft  = "bottom_left"
	PatternFourCorners = "four_corners" // collapses to central placement
	PatternCentral     = "central"
	PatternCustom      = "custom"
)

// Coordinate is a (row, col) cell address used by custom release patterns.
type Coordinate struct {
	Row int `yaml:"row"`
	Col int `yaml:"col"`
}

// ReleaseConfig describes the initial herd placement.
type ReleaseConfig struct {
	Pattern            string       `yaml:"pattern"`
	TotalPopulation    int          `yaml:"total_population"`
	ReleaseRadiusCells int          `yaml:"release_radius_cells"` // 0 = derive from local habitat quality
	CustomCoordinates  []Coordinate `yaml:"custom_coordinates"`
}

// TerrainConfig drives the synthetic biomass terrain used when the host
// supplies no raster input.
type TerrainConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	CellSizeKm float64 `yaml:"cell_size_km"`
	Scale      float64 `yaml:"scale"`       // Base noise frequency
	Octaves    int     `yaml:"octaves"`     // FBM octaves (detail level)
	Lacunarity float64 `yaml:"lacunarity"`  // Frequency multiplier per octave
	Gain       float64 `yaml:"gain"`        // Amplitude multiplier per octave
	Contrast   float64 `yaml:"contrast"`    // Exponent shaping patchiness
	SeaLevel   float64 `yaml:"sea_level"`   // Noise below this becomes water (biomass 0)
	MaxBiomass float64 `yaml:"max_biomass"` // Tonnes per cell at the richest point
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration describes a runnable scenario.
func (c *Config) Validate() error {
	if c.Years < 1 {
		return fmt.Errorf("config: years must be >= 1, got %d", c.Years)
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"biomass.digestibility_factor", c.Biomass.DigestibilityFactor},
		{"biomass.annual_growth_factor", c.Biomass.AnnualGrowthFactor},
		{"biomass.utilization_factor", c.Biomass.UtilizationFactor},
		{"biomass.max_biomass_scaling", c.Biomass.MaxBiomassScaling},
	} {
		if f.value <= 0 || f.value > 1 {
			return fmt.Errorf("config: %s must be in (0,1], got %g", f.name, f.value)
		}
	}
	if c.Bison.BodyMassKg <= 0 {
		return fmt.Errorf("config: bison.body_mass_kg must be positive, got %g", c.Bison.BodyMassKg)
	}
	if c.Bison.DailyIntakeRate <= 0 {
		return fmt.Errorf("config: bison.daily_intake_rate must be positive, got %g", c.Bison.DailyIntakeRate)
	}
	if c.Bison.StarvationThreshold <= 0 || c.Bison.StarvationThreshold > 1 {
		return fmt.Errorf("config: bison.starvation_threshold must be in (0,1], got %g", c.Bison.StarvationThreshold)
	}
	if c.Migration.AnnualMigrationKm < 0 {
		return fmt.Errorf("config: migration.annual_migration_km must not be negative, got %g", c.Migration.AnnualMigrationKm)
	}
	if c.Migration.DiffusionRate < 0 || c.Migration.DiffusionRate > 1 {
		return fmt.Errorf("config: migration.diffusion_rate must be in [0,1], got %g", c.Migration.DiffusionRate)
	}
	switch c.Release.Pattern {
	case PatternUpperLeft, PatternBottomLeft, PatternFourCorners, PatternCentral, PatternCustom:
	default:
		return fmt.Errorf("config: unknown release pattern %q", c.Release.Pattern)
	}
	if c.Release.TotalPopulation < 0 {
		return fmt.Errorf("config: release.total_population must not be negative, got %d", c.Release.TotalPopulation)
	}
	if c.Terrain.Width < 1 || c.Terrain.Height < 1 {
		return fmt.Errorf("config: terrain dimensions must be >= 1, got %dx%d", c.Terrain.Width, c.Terrain.Height)
	}
	if c.Terrain.CellSizeKm <= 0 {
		return fmt.Errorf("config: terrain.cell_size_km must be positive, got %g", c.Terrain.CellSizeKm)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
