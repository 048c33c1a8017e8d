// Package engine provides the per-tick epidemic simulation and the loop that
// drives it.
package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// DefaultFrameTime is the simulated frame length fed to each tick before the
// speed multiplier is applied.
const DefaultFrameTime = 1.0 / 30

// Engine drives a Simulation forward.
type Engine struct {
	Tick      uint64        // Ticks run so far (monotonic, never resets)
	Interval  time.Duration // Real time per tick; 0 runs as fast as possible
	FrameTime float64       // Sim-seconds per tick at speed 1
	Controls  *Controls

	// OnTick runs one tick with the speed-scaled dt. Populated during setup.
	OnTick func(tick uint64, dt float64)
	// Done reports whether the run is finished; the loop exits when it is.
	Done func() bool

	running atomic.Bool
}

// NewEngine creates a simulation engine with default settings.
func NewEngine(controls *Controls) *Engine {
	if controls == nil {
		controls = NewControls()
	}
	return &Engine{
		Interval:  time.Second / 30,
		FrameTime: DefaultFrameTime,
		Controls:  controls,
	}
}

// Run starts the simulation loop. Blocks until ctx is cancelled, Stop is
// called, or Done reports true.
func (e *Engine) Run(ctx context.Context) {
	e.running.Store(true)
	slog.Info("simulation engine started", "tick", e.Tick, "speed", e.Controls.Speed())

	for e.running.Load() {
		if ctx.Err() != nil || (e.Done != nil && e.Done()) {
			break
		}

		start := time.Now()
		paused := e.step()

		// Sleep for the remainder of the tick interval.
		wait := e.Interval
		if paused && wait == 0 {
			// Paused headless run: don't spin.
			wait = 100 * time.Millisecond
		}
		if elapsed := time.Since(start); elapsed < wait {
			select {
			case <-ctx.Done():
			case <-time.After(wait - elapsed):
			}
		}
	}

	e.running.Store(false)
	slog.Info("simulation engine stopped", "tick", e.Tick)
}

// Stop halts the simulation loop after the current tick.
func (e *Engine) Stop() {
	e.running.Store(false)
}

// step advances the simulation by one tick and reports whether it was paused.
func (e *Engine) step() bool {
	e.Tick++
	dt := e.FrameTime * e.Controls.Speed()
	if e.OnTick != nil {
		e.OnTick(e.Tick, dt)
	}
	return dt == 0
}
