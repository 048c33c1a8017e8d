package engine

import (
	"testing"

	"github.com/talgya/contagion-city/internal/agents"
	"github.com/talgya/contagion-city/internal/city"
	"github.com/talgya/contagion-city/internal/entropy"
)

// testCity returns a city large enough to house a few thousand agents.
func testCity(t testing.TB) *city.Grid {
	t.Helper()
	cfg := city.DefaultGenConfig()
	cfg.DensitySpread = 0
	cfg.Seed = 7
	g, err := city.Generate(cfg)
	if err != nil {
		t.Fatalf("generate city: %v", err)
	}
	return g
}

func smallCity(t testing.TB) *city.Grid {
	t.Helper()
	g, err := city.Generate(city.SmallTestConfig())
	if err != nil {
		t.Fatalf("generate city: %v", err)
	}
	return g
}

// newTestSim spawns n agents into a fresh city and wraps them in a simulation.
func newTestSim(t testing.TB, n int, seed uint64, mutate func(*Params)) *Simulation {
	t.Helper()
	g := testCity(t)
	cfg := agents.DefaultSpawnConfig()
	cfg.Count = n
	pop, err := agents.NewSpawner(seed).SpawnPopulation(g, cfg)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	p := DefaultParams()
	if mutate != nil {
		mutate(&p)
	}
	sim, err := NewSimulation(g, pop, p, nil)
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	return sim
}

// handSim wraps a hand-built population in a simulation over the small city.
func handSim(t testing.TB, pop []agents.Agent, mutate func(*Params)) *Simulation {
	t.Helper()
	p := DefaultParams()
	if mutate != nil {
		mutate(&p)
	}
	sim, err := NewSimulation(smallCity(t), pop, p, nil)
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	return sim
}

// streetAgent builds a susceptible street agent standing still at pos.
func streetAgent(id int, pos city.Vec2) agents.Agent {
	return agents.Agent{
		ID:      agents.AgentID(id),
		Pos:     pos,
		Heading: city.East,
		Stream:  entropy.NewStream(99, uint64(id)),
	}
}
