// Package agents provides the agent data model and initial population spawning.
// Agents are stored by value in one fixed arena for the whole run; an agent's
// index in that arena is its ID.
package agents

import (
	"github.com/talgya/contagion-city/internal/city"
	"github.com/talgya/contagion-city/internal/entropy"
)

// AgentID is the agent's index in the population arena.
type AgentID int32

// SeedVirus is the viral load a freshly infected agent starts with.
const SeedVirus = 0.1

// HomeSentinel is the off-grid parking position of agents inside their home.
var HomeSentinel = city.Vec2{X: 10000, Y: 10000}

// Status classifies an agent for presentation.
type Status uint8

const (
	StatusHealthy   Status = iota // Never infected, unmasked
	StatusMasked                  // Never infected, wears a mask
	StatusInfected                // Currently carrying virus
	StatusResistant               // Recovered, permanently immune
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusMasked:
		return "masked"
	case StatusInfected:
		return "infected"
	case StatusResistant:
		return "resistant"
	default:
		return "unknown"
	}
}

// Agent is one simulated person.
type Agent struct {
	ID AgentID `json:"id"`

	// Street navigation
	Pos         city.Vec2  `json:"pos"`
	Heading     city.Vec2  `json:"heading"` // Cardinal unit vector
	Speed       float64    `json:"speed"`   // World units per sim-second
	Goal        city.Coord `json:"goal"`
	CrossMargin float64    `json:"cross_margin"` // In-tile offset that triggers the next turn

	// Disease
	Virus      float64 `json:"virus"` // ≥ 0
	Infected   bool    `json:"infected"`
	Antibodies float64 `json:"antibodies"` // ≥ 0
	Resistant  bool    `json:"resistant"`

	// Schedule
	Home        city.Coord  `json:"home"`
	HomeRoom    city.RoomID `json:"home_room"`
	AtHome      bool        `json:"at_home"`
	HeadingHome bool        `json:"heading_home"`
	Phase       float64     `json:"phase"` // Radians added to the day cycle
	NightOwl    bool        `json:"night_owl"`

	// Policy levers, assigned from the control surface.
	Masked    bool `json:"masked"`
	HomeBound bool `json:"home_bound"`

	// Private random stream; only this agent's own update may advance it.
	Stream entropy.Stream `json:"-"`
}

// Susceptible reports whether the agent can still catch the virus.
func (a *Agent) Susceptible() bool {
	return !a.Infected && !a.Resistant
}

// Infect marks a susceptible agent infected with the seed viral load.
func (a *Agent) Infect() {
	a.Infected = true
	a.Virus = SeedVirus
}

// Recover clears the infection and grants permanent resistance.
func (a *Agent) Recover() {
	a.Virus = 0
	a.Infected = false
	a.Resistant = true
}

// Park moves the agent inside its home room.
func (a *Agent) Park() {
	a.AtHome = true
	a.Pos = HomeSentinel
}

// Status returns the agent's presentation class.
func (a *Agent) Status() Status {
	switch {
	case a.Infected:
		return StatusInfected
	case a.Resistant:
		return StatusResistant
	case a.Masked:
		return StatusMasked
	default:
		return StatusHealthy
	}
}
