// Package rng provides the deterministic random generator shared by
// initialization and migration. Every run seeds exactly one RNG up front;
// components observe randomness in call order, so a fixed seed reproduces
// an entire run bit for bit.
package rng

import "math"

// RNG is a mulberry32 generator: a single 32-bit state advanced by a fixed
// mixing recurrence. Statistical quality is plenty for simulation use and
// the small state makes reproducing a run trivial. Not cryptographic.
type RNG struct {
	state uint32
}

// New returns a generator seeded with seed.
func New(seed uint32) *RNG {
	return &RNG{state: seed}
}

// SetSeed resets the internal state. Call once per run start, never per
// cell, so the draw order stays well defined.
func (r *RNG) SetSeed(seed uint32) {
	r.state = seed
}

// Uniform returns the next sample in [0, 1).
func (r *RNG) Uniform() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// Integer returns a sample in [min, max). If max <= min it returns min.
func (r *RNG) Integer(min, max int) int {
	if max <= min {
		return min
	}
	return min + int(r.Uniform()*float64(max-min))
}

// Normal returns a sample from N(mean, stdDev) via Box-Muller. Consumes
// exactly two uniforms per call.
func (r *RNG) Normal(mean, stdDev float64) float64 {
	u1 := r.Uniform()
	u2 := r.Uniform()
	if u1 == 0 {
		u1 = math.SmallestNonzeroFloat64
	}
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + stdDev*z
}

// Poisson returns a sample from a Poisson distribution with the given
// rate. Uses Knuth's product-of-uniforms method for small lambda and a
// rounded normal approximation (floored at zero) otherwise.
func (r *RNG) Poisson(lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	if lambda < 30 {
		limit := math.Exp(-lambda)
		k := 0
		p := 1.0
		for {
			k++
			p *= r.Uniform()
			if p <= limit {
				return k - 1
			}
		}
	}
	n := math.Round(r.Normal(lambda, math.Sqrt(lambda)))
	if n < 0 {
		return 0
	}
	return int(n)
}
