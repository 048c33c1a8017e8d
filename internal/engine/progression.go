package engine

import (
	"math"

	"github.com/talgya/contagion-city/internal/agents"
)

// Progress integrates one infected agent's viral load and antibodies over dt.
// A load that reaches zero is clamped and the agent becomes resistant.
func Progress(a *agents.Agent, p Params, dt float64) {
	a.Antibodies += p.AntibodyReproductionRatePerVirus * a.Virus * dt
	a.Virus *= math.Pow(p.VirusReproductionRate, dt)
	a.Virus -= p.AntibodyVirusKillRate * a.Antibodies * dt
	if a.Virus <= 0 {
		a.Recover()
	}
}

// progress runs the disease clock: infections evolve, and once the run has
// started susceptible agents may pick up the virus from the background.
func (s *Simulation) progress(dt float64) {
	p := s.Params
	dt *= p.DiseaseTimeScale

	ambient := 0.0
	if s.Started {
		ambient = p.AmbientRate * dt
	}

	s.forEach(func(_ int, a *agents.Agent) {
		switch {
		case a.Infected:
			Progress(a, p, dt)
		case a.Resistant:
		default:
			if a.Stream.Float64() < ambient {
				a.Infect()
			}
		}
	})
}
