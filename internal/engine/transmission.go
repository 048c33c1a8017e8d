package engine

import "github.com/talgya/contagion-city/internal/agents"

// Exposure multipliers applied to the infection probability.
const (
	HomeExposure = 0.25
	MaskExposure = 0.4
)

// InfectionChance returns the probability a susceptible agent catches the
// virus from a bucket holding bucketVirus over dt.
func InfectionChance(ratePerVirus, bucketVirus, dt float64, atHome, masked bool) float64 {
	p := ratePerVirus * bucketVirus * dt
	if atHome {
		p *= HomeExposure
	}
	if masked {
		p *= MaskExposure
	}
	return p
}

// transmit draws one sample per susceptible agent from its own stream against
// the viral load of its bucket.
func (s *Simulation) transmit(dt float64) {
	rate := s.Params.InfectionRatePerVirus
	s.forEach(func(i int, a *agents.Agent) {
		if !a.Susceptible() {
			return
		}
		p := InfectionChance(rate, s.buckets.Of(i).Virus, dt, a.AtHome, a.Masked)
		if a.Stream.Float64() < p {
			a.Infect()
		}
	})
}
