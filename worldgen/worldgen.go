// Package worldgen builds a synthetic biomass landscape for runs that have
// no raster input: fractal simplex noise shaped by a contrast exponent,
// with a sea-level cut that produces water cells (value 0).
package worldgen

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/mqln/bisonsim/config"
	"github.com/mqln/bisonsim/grid"
)

// Generate returns a biomass grid for the configured terrain. The same seed
// always yields the same landscape.
func Generate(cfg config.TerrainConfig, seed int64) *grid.Grid {
	noise := opensimplex.NewNormalized(seed)
	out := grid.New(cfg.Width, cfg.Height, cfg.CellSizeKm)

	for row := 0; row < cfg.Height; row++ {
		v := (float64(row) + 0.5) / float64(cfg.Height)
		for col := 0; col < cfg.Width; col++ {
			u := (float64(col) + 0.5) / float64(cfg.Width)

			n := fbm(noise, u, v, cfg)
			if n <= cfg.SeaLevel {
				continue // water stays at zero
			}
			// Rescale the land range to [0,1] and shape its contrast.
			n = (n - cfg.SeaLevel) / (1 - cfg.SeaLevel)
			n = math.Pow(n, cfg.Contrast)
			out.Set(row, col, n*cfg.MaxBiomass)
		}
	}

	return out
}

// fbm layers octaves of simplex noise, each octave at higher frequency and
// lower amplitude, normalized back to [0,1].
func fbm(noise opensimplex.Noise, u, v float64, cfg config.TerrainConfig) float64 {
	sum := 0.0
	norm := 0.0
	amp := 0.5
	freq := cfg.Scale

	for o := 0; o < cfg.Octaves; o++ {
		sum += amp * noise.Eval2(u*freq, v*freq)
		norm += amp
		freq *= cfg.Lacunarity
		amp *= cfg.Gain
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}
