// Agent spawning — creates the initial population with homes, spawn points,
// walking speed, and a personal diurnal phase.
package agents

import (
	"errors"
	"fmt"
	"math"

	"github.com/talgya/contagion-city/internal/city"
	"github.com/talgya/contagion-city/internal/entropy"
)

// ErrNoHousing is returned when the population exceeds the city's housing.
var ErrNoHousing = errors.New("no housing capacity left")

// SpawnConfig controls initial population generation.
type SpawnConfig struct {
	Count            int     `yaml:"count"`
	Speed            float64 `yaml:"speed"`              // Mean walking speed, units per sim-second
	SpeedSpread      float64 `yaml:"speed_spread"`       // Uniform ± around Speed
	NightOwlFraction float64 `yaml:"night_owl_fraction"` // Share with the night-active base phase
	HomeRetries      int     `yaml:"home_retries"`       // Random room picks before falling back to a scan
}

// DefaultSpawnConfig returns the standard population settings.
func DefaultSpawnConfig() SpawnConfig {
	return SpawnConfig{
		Count:            4000,
		Speed:            8,
		SpeedSpread:      2,
		NightOwlFraction: 0.25,
		HomeRetries:      32,
	}
}

// Validate checks the spawn parameters.
func (cfg SpawnConfig) Validate() error {
	switch {
	case cfg.Count <= 0:
		return fmt.Errorf("population count must be positive, got %d", cfg.Count)
	case cfg.Speed <= 0:
		return fmt.Errorf("speed must be positive, got %v", cfg.Speed)
	case cfg.SpeedSpread < 0 || cfg.SpeedSpread >= cfg.Speed:
		return fmt.Errorf("speed_spread must be within [0, speed), got %v", cfg.SpeedSpread)
	case cfg.NightOwlFraction < 0 || cfg.NightOwlFraction > 1:
		return fmt.Errorf("night_owl_fraction must be within [0,1], got %v", cfg.NightOwlFraction)
	case cfg.HomeRetries < 0:
		return fmt.Errorf("home_retries must not be negative, got %d", cfg.HomeRetries)
	}
	return nil
}

// Spawner creates agents for the simulation.
type Spawner struct {
	seed   uint64
	rng    entropy.Stream
	nextID AgentID
}

// NewSpawner creates an agent spawner with the given master seed. Every agent
// stream is derived from the same seed, so a population is reproducible.
func NewSpawner(seed uint64) *Spawner {
	return &Spawner{
		seed: seed,
		rng:  entropy.NewStream(seed, math.MaxUint64),
	}
}

// SpawnPopulation creates cfg.Count agents housed in g's rooms.
func (s *Spawner) SpawnPopulation(g *city.Grid, cfg SpawnConfig) ([]Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("spawn config: %w", err)
	}
	if capacity := g.Capacity(); capacity < cfg.Count {
		return nil, fmt.Errorf("population %d exceeds housing capacity %d: %w", cfg.Count, capacity, ErrNoHousing)
	}

	space := make([]int, g.RoomCount())
	for i, r := range g.Rooms {
		space[i] = r.Capacity
	}

	population := make([]Agent, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		room, err := s.pickRoom(space, cfg.HomeRetries)
		if err != nil {
			return nil, fmt.Errorf("house agent %d: %w", i, err)
		}
		population = append(population, s.spawnOne(g, cfg, room))
	}
	return population, nil
}

// pickRoom draws random rooms until one has space, then falls back to a
// linear scan from a random start so the search is always bounded.
func (s *Spawner) pickRoom(space []int, retries int) (city.RoomID, error) {
	for try := 0; try < retries; try++ {
		idx := s.rng.IntN(len(space))
		if space[idx] > 0 {
			space[idx]--
			return city.RoomID(idx), nil
		}
	}
	start := s.rng.IntN(len(space))
	for off := range space {
		idx := (start + off) % len(space)
		if space[idx] > 0 {
			space[idx]--
			return city.RoomID(idx), nil
		}
	}
	return 0, ErrNoHousing
}

func (s *Spawner) spawnOne(g *city.Grid, cfg SpawnConfig, room city.RoomID) Agent {
	id := s.nextID
	s.nextID++

	pos, heading := g.SpawnPoint(&s.rng)
	home := g.Room(room).Coord

	nightOwl := s.rng.Float64() < cfg.NightOwlFraction
	base := 1.0
	if nightOwl {
		base = 0
	}

	return Agent{
		ID:          id,
		Pos:         pos,
		Heading:     heading,
		Speed:       cfg.Speed + s.rng.Range(-cfg.SpeedSpread, cfg.SpeedSpread),
		Goal:        home,
		CrossMargin: s.rng.Range(city.SidewalkMin, city.SidewalkMax),
		Home:        home,
		HomeRoom:    room,
		NightOwl:    nightOwl,
		Phase:       (base + s.rng.Range(-0.25, 0.25)) * math.Pi,
		Stream:      entropy.NewStream(s.seed, uint64(id)),
	}
}
