package engine

import "sync"

// Speed presets offered by the control surface.
const (
	SpeedPause     = 0.0
	SpeedNormal    = 2.0
	SpeedFast      = 4.0
	SpeedBlazing   = 8.0
	SpeedLudicrous = 16.0
)

// Policy holds the size of each policy subpopulation.
type Policy struct {
	HomeBound int `json:"home_bound" yaml:"home_bound"` // Leading agents kept at home
	Masked    int `json:"masked" yaml:"masked"`         // Trailing agents wearing masks
}

func (p Policy) clamp(n int) Policy {
	p.HomeBound = min(max(p.HomeBound, 0), n)
	p.Masked = min(max(p.Masked, 0), n)
	return p
}

// Controls is the control surface shared between the driver and whoever
// steers the run. The simulation samples it once at the start of each tick.
type Controls struct {
	mu     sync.Mutex
	speed  float64
	policy Policy
}

// NewControls returns controls at normal speed with no policy in force.
func NewControls() *Controls {
	return &Controls{speed: SpeedNormal}
}

// Speed returns the time multiplier.
func (c *Controls) Speed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

// SetSpeed sets the time multiplier; 0 pauses the run.
func (c *Controls) SetSpeed(speed float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speed = max(speed, 0)
}

// Policy returns the policy currently requested.
func (c *Controls) Policy() Policy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.policy
}

// SetPolicy requests a new policy, applied at the start of the next tick.
func (c *Controls) SetPolicy(p Policy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policy = p
}
