package engine

import (
	"context"
	"testing"
)

func TestEngineRunsUntilDone(t *testing.T) {
	e := NewEngine(nil)
	e.Interval = 0

	var dts []float64
	e.OnTick = func(_ uint64, dt float64) { dts = append(dts, dt) }
	e.Done = func() bool { return len(dts) == 5 }

	e.Run(context.Background())
	if e.Tick != 5 || len(dts) != 5 {
		t.Fatalf("ran %d ticks (%d callbacks), want 5", e.Tick, len(dts))
	}
	if want := DefaultFrameTime * SpeedNormal; dts[0] != want {
		t.Fatalf("dt = %v, want %v", dts[0], want)
	}
}

func TestEnginePausedTicksHaveZeroDt(t *testing.T) {
	controls := NewControls()
	controls.SetSpeed(SpeedPause)
	e := NewEngine(controls)
	e.Interval = 0

	ticks := 0
	e.OnTick = func(_ uint64, dt float64) {
		ticks++
		if dt != 0 {
			t.Errorf("paused tick %d got dt %v", ticks, dt)
		}
	}
	e.Done = func() bool { return ticks == 2 }
	e.Run(context.Background())
}

func TestEngineStops(t *testing.T) {
	e := NewEngine(nil)
	e.Interval = 0
	e.OnTick = func(tick uint64, _ float64) {
		if tick == 3 {
			e.Stop()
		}
	}
	e.Run(context.Background())
	if e.Tick != 3 {
		t.Fatalf("stopped at tick %d, want 3", e.Tick)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e = NewEngine(nil)
	e.Run(ctx)
	if e.Tick != 0 {
		t.Fatalf("cancelled engine ran %d ticks", e.Tick)
	}
}

func TestEngineDrivesSimulation(t *testing.T) {
	sim := newTestSim(t, 200, 12, func(p *Params) {
		p.DayLength = 0.5
		p.RunDays = 1
	})
	e := NewEngine(sim.Controls)
	e.Interval = 0
	e.FrameTime = 0.1
	e.OnTick = func(_ uint64, dt float64) { sim.Step(dt) }
	e.Done = func() bool { return sim.Ended }

	sim.Start()
	e.Run(context.Background())
	if !sim.Ended {
		t.Fatalf("engine returned before the run ended")
	}
	if sim.TickCount != e.Tick {
		t.Fatalf("simulation saw %d ticks, engine ran %d", sim.TickCount, e.Tick)
	}
}
