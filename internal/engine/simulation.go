// Simulation ties together all per-tick stages and runs them in a fixed order.
package engine

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/talgya/contagion-city/internal/agents"
	"github.com/talgya/contagion-city/internal/city"
)

// Params holds the epidemiological and scheduling constants of a run.
type Params struct {
	InteractionRadius                float64 `yaml:"interaction_radius"` // Street bucket cell size
	InfectionRatePerVirus            float64 `yaml:"infection_rate_per_virus"`
	VirusReproductionRate            float64 `yaml:"virus_reproduction_rate"`              // Growth factor per disease time unit
	AntibodyReproductionRatePerVirus float64 `yaml:"antibody_reproduction_rate_per_virus"`
	AntibodyVirusKillRate            float64 `yaml:"antibody_virus_kill_rate"`
	AmbientRate                      float64 `yaml:"ambient_rate"`       // Background infection chance per disease time unit
	DiseaseTimeScale                 float64 `yaml:"disease_time_scale"` // Disease clock relative to the tick dt
	DayLength                        float64 `yaml:"day_length"`         // Sim-time of one half cycle of the schedule sine
	TimePerSecond                    float64 `yaml:"time_per_second"`    // Clock advance per unit of dt
	SampleInterval                   float64 `yaml:"sample_interval"`    // Sim-time between statistics samples
	RunDays                          float64 `yaml:"run_days"`           // The run ends after this many full days
	FatalityFraction                 float64 `yaml:"fatality_fraction"`  // Share of recovered counted as dead in the outcome
	OutbreakThreshold                float64 `yaml:"outbreak_threshold"`
	ProtectedThreshold               float64 `yaml:"protected_threshold"`
	Workers                          int     `yaml:"workers"` // 0 = GOMAXPROCS
}

// DefaultParams returns the standard disease and schedule settings.
func DefaultParams() Params {
	return Params{
		InteractionRadius:                4,
		InfectionRatePerVirus:            0.5,
		VirusReproductionRate:            3,
		AntibodyReproductionRatePerVirus: 0.5,
		AntibodyVirusKillRate:            1,
		AmbientRate:                      0.0002,
		DiseaseTimeScale:                 0.1,
		DayLength:                        12,
		TimePerSecond:                    1,
		SampleInterval:                   1,
		RunDays:                          15,
		FatalityFraction:                 0.075,
		OutbreakThreshold:                5,
		ProtectedThreshold:               5,
	}
}

// Validate rejects parameters that would break hashing, integration or sampling.
func (p Params) Validate() error {
	switch {
	case p.InteractionRadius <= 0:
		return fmt.Errorf("interaction_radius must be positive, got %v", p.InteractionRadius)
	case p.DayLength <= 0:
		return fmt.Errorf("day_length must be positive, got %v", p.DayLength)
	case p.SampleInterval <= 0:
		return fmt.Errorf("sample_interval must be positive, got %v", p.SampleInterval)
	case p.TimePerSecond <= 0:
		return fmt.Errorf("time_per_second must be positive, got %v", p.TimePerSecond)
	case p.DiseaseTimeScale <= 0:
		return fmt.Errorf("disease_time_scale must be positive, got %v", p.DiseaseTimeScale)
	case p.RunDays <= 0:
		return fmt.Errorf("run_days must be positive, got %v", p.RunDays)
	case p.VirusReproductionRate < 0:
		return fmt.Errorf("virus_reproduction_rate must not be negative, got %v", p.VirusReproductionRate)
	case p.InfectionRatePerVirus < 0 || p.AmbientRate < 0:
		return fmt.Errorf("infection rates must not be negative")
	case p.AntibodyReproductionRatePerVirus < 0 || p.AntibodyVirusKillRate < 0:
		return fmt.Errorf("antibody rates must not be negative")
	case p.FatalityFraction < 0 || p.FatalityFraction > 1:
		return fmt.Errorf("fatality_fraction must be within [0,1], got %v", p.FatalityFraction)
	case p.Workers < 0:
		return fmt.Errorf("workers must not be negative, got %d", p.Workers)
	}
	return nil
}

// Simulation holds the complete run state. It is owned by the driver and every
// stage reaches the world through it; nothing is global.
type Simulation struct {
	Grid     *city.Grid
	Agents   []agents.Agent // Fixed arena, index == AgentID
	Params   Params
	Controls *Controls

	Time       float64 // Simulated clock
	Started    bool    // Clock and ambient infection run only once started
	Ended      bool
	TickCount  uint64
	LastSample float64
	Series     Series

	// OnSample is called after each statistics sample is appended.
	OnSample func(Sample)

	buckets Buckets
	rooms   []RoomTally
	policy  Policy
	workers int
	lastDay int
}

// NewSimulation creates a Simulation over a spawned population.
func NewSimulation(g *city.Grid, population []agents.Agent, p Params, controls *Controls) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("simulation params: %w", err)
	}
	if g.TileSize <= 0 {
		return nil, fmt.Errorf("grid tile size must be positive, got %v", g.TileSize)
	}
	if controls == nil {
		controls = NewControls()
	}

	workers := p.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	sim := &Simulation{
		Grid:     g,
		Agents:   population,
		Params:   p,
		Controls: controls,
		rooms:    make([]RoomTally, g.RoomCount()),
		workers:  workers,
		lastDay:  1,
	}
	sim.applyPolicy(controls.Policy())
	sim.tallyRooms()
	return sim, nil
}

// Start begins the run: the clock and background infection start moving.
func (s *Simulation) Start() {
	if s.Started || s.Ended {
		return
	}
	s.Started = true
	slog.Info("simulation started", "agents", len(s.Agents), "rooms", s.Grid.RoomCount(), "workers", s.workers)
}

// Step advances the simulation by one tick of dt sim-seconds. A dt of zero is
// a paused tick: every stage runs but nothing moves, integrates or infects.
func (s *Simulation) Step(dt float64) {
	s.TickCount++

	if policy := s.Controls.Policy().clamp(len(s.Agents)); policy != s.policy {
		s.applyPolicy(policy)
	}

	s.aggregate()
	s.transmit(dt)
	s.move(dt)
	s.schedule()
	s.progress(dt)
	s.tallyRooms()

	if s.Started {
		s.Time += dt * s.Params.TimePerSecond
	}
	if s.Time-s.LastSample > s.Params.SampleInterval {
		s.sample()
	}
	s.checkDay()
}

// applyPolicy assigns the home-bound policy to the leading agents and masks
// to the trailing agents of the arena.
func (s *Simulation) applyPolicy(p Policy) {
	n := len(s.Agents)
	p = p.clamp(n)
	for i := range s.Agents {
		s.Agents[i].HomeBound = i < p.HomeBound
		s.Agents[i].Masked = i >= n-p.Masked
	}
	if p != s.policy {
		slog.Info("policy applied", "home_bound", p.HomeBound, "masked", p.Masked)
	}
	s.policy = p
}

// checkDay logs a daily report on day rollover and ends the run after RunDays.
func (s *Simulation) checkDay() {
	day := s.Day()
	if day != s.lastDay {
		s.lastDay = day
		t := Tally(s.Agents)
		slog.Info("daily report",
			"day", day,
			"time", fmt.Sprintf("%.2f", s.Time),
			"healthy", t.Healthy,
			"infected", t.Infected,
			"resistant", t.Resistant,
			"at_home", s.atHomeCount(),
		)
	}
	if !s.Ended && s.Time/(2*s.Params.DayLength) > s.Params.RunDays {
		s.Ended = true
		s.Started = false
		slog.Info("simulation ended", "day", day, "ticks", s.TickCount, "samples", s.Series.Len())
	}
}

func (s *Simulation) atHomeCount() int {
	n := 0
	for i := range s.Agents {
		if s.Agents[i].AtHome {
			n++
		}
	}
	return n
}
