package sim

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mqln/bisonsim/bison"
	"github.com/mqln/bisonsim/config"
	"github.com/mqln/bisonsim/grid"
	"github.com/mqln/bisonsim/rng"
	"github.com/mqln/bisonsim/worldgen"
)

// Phase is the runner's lifecycle state.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhasePaused
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseCompleted:
		return "completed"
	}
	return "unknown"
}

// ErrReset is returned by Run when Reset was requested before the run
// completed.
var ErrReset = errors.New("sim: run reset")

// Options carries the optional inputs a host can supply alongside the
// configuration.
type Options struct {
	// InitialBiomass is the starting resource grid (values >= 0, zero marks
	// water). Nil generates synthetic terrain from cfg.Terrain.
	InitialBiomass *grid.Grid
	// LandMask blocks migration into cells <= 0. Nil disables water
	// blocking; hosts usually pass the max-biomass grid.
	LandMask *grid.Grid
}

// Runner drives the year-by-year loop and owns the produced state sequence.
//
// The simulation itself is single-threaded: all grids and the RNG are
// touched only by the goroutine inside Run. Pause, Resume and Reset may be
// called from other goroutines; they flip atomic flags that the loop
// observes only at year boundaries, never mid-step. Run must not be called
// reentrantly on the same Runner.
type Runner struct {
	cfg   *config.Config
	opts  Options
	runID uuid.UUID
	seed  uint32

	phase atomic.Int32
	pause atomic.Bool
	reset atomic.Bool

	mu     sync.Mutex
	states []State
	meta   Metadata
}

// NewRunner prepares a run of cfg. The configuration is treated as frozen;
// cfg.Seed of zero means the host did not care and the runner derives one
// from the clock so the run is still reproducible via Metadata().Seed.
func NewRunner(cfg *config.Config, opts Options) *Runner {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint32(time.Now().UnixNano())
	}
	return &Runner{
		cfg:   cfg,
		opts:  opts,
		runID: uuid.New(),
		seed:  seed,
	}
}

// Phase returns the runner's current lifecycle phase.
func (r *Runner) Phase() Phase { return Phase(r.phase.Load()) }

// Pause requests a pause at the next year boundary. No-op when not running.
func (r *Runner) Pause() { r.pause.Store(true) }

// Resume clears a pending or active pause.
func (r *Runner) Resume() { r.pause.Store(false) }

// Reset requests that the run stop and discard its states at the next year
// boundary, returning the runner to idle.
func (r *Runner) Reset() { r.reset.Store(true) }

// States returns a copy of the state sequence produced so far, in year
// order from 0.
func (r *Runner) States() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]State, len(r.states))
	copy(out, r.states)
	return out
}

// Metadata describes the run's grid, seed, and identity. Valid once Run has
// built year 0.
func (r *Runner) Metadata() Metadata {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.meta
}

// Run executes the full simulation: seed the RNG once, build year 0, then
// advance one year at a time until cfg.Years states exist. Pause, Reset and
// ctx cancellation take effect only between years. Returns the ordered
// state sequence, or ErrReset / ctx.Err() if the run was abandoned.
func (r *Runner) Run(ctx context.Context) ([]State, error) {
	if !r.phase.CompareAndSwap(int32(PhaseIdle), int32(PhaseRunning)) {
		return nil, errors.New("sim: runner is not idle")
	}
	r.reset.Store(false)

	gen := rng.New(r.seed)

	initial := r.opts.InitialBiomass
	land := r.opts.LandMask
	if initial == nil {
		initial = worldgen.Generate(r.cfg.Terrain, int64(r.seed))
		if land == nil {
			// The generated landscape knows its own water cells; an absent
			// mask means "no blocking" only for host-supplied grids.
			land = initial
		}
	}

	release := r.cfg.Release
	if release.ReleaseRadiusCells == 0 {
		row, col := bison.ReleaseCenter(release, initial.Width(), initial.Height())
		release.ReleaseRadiusCells = bison.SuggestRadius(initial, row, col, release.TotalPopulation, r.cfg.Biomass, r.cfg.Bison)
	}
	population := bison.Initialize(initial, release, gen)

	state := initialState(initial, population, r.cfg)

	r.mu.Lock()
	r.states = append(r.states[:0], state)
	r.meta = Metadata{
		RunID:      r.runID,
		TotalYears: r.cfg.Years,
		Width:      initial.Width(),
		Height:     initial.Height(),
		CellSizeKm: initial.CellSizeKm(),
		Seed:       r.seed,
	}
	r.mu.Unlock()

	for year := 1; year < r.cfg.Years; year++ {
		if err := r.waitAtBoundary(ctx); err != nil {
			return nil, err
		}

		state = Step(state, r.cfg, land, gen)

		r.mu.Lock()
		r.states = append(r.states, state)
		r.mu.Unlock()
	}

	r.phase.Store(int32(PhaseCompleted))
	return r.States(), nil
}

// waitAtBoundary is the loop's only suspension point. It observes reset and
// cancellation, and cooperatively spins while paused.
func (r *Runner) waitAtBoundary(ctx context.Context) error {
	for {
		if r.reset.Load() {
			return r.abandon(ErrReset)
		}
		if err := ctx.Err(); err != nil {
			return r.abandon(err)
		}
		if !r.pause.Load() {
			r.phase.Store(int32(PhaseRunning))
			return nil
		}
		r.phase.Store(int32(PhasePaused))
		time.Sleep(time.Millisecond)
	}
}

// abandon discards the in-flight run and returns the runner to idle.
func (r *Runner) abandon(cause error) error {
	r.mu.Lock()
	r.states = nil
	r.mu.Unlock()
	r.pause.Store(false)
	r.reset.Store(false)
	r.phase.Store(int32(PhaseIdle))
	return cause
}
