package agents

import (
	"errors"
	"math"
	"testing"

	"github.com/talgya/contagion-city/internal/city"
)

func smallGrid(t *testing.T) *city.Grid {
	t.Helper()
	g, err := city.Generate(city.SmallTestConfig())
	if err != nil {
		t.Fatalf("generate city: %v", err)
	}
	return g
}

func smallSpawn(count int) SpawnConfig {
	cfg := DefaultSpawnConfig()
	cfg.Count = count
	return cfg
}

func TestSpawnPopulationRespectsCapacity(t *testing.T) {
	g := smallGrid(t)
	pop, err := NewSpawner(1).SpawnPopulation(g, smallSpawn(g.Capacity()))
	if err != nil {
		t.Fatalf("spawn at full capacity: %v", err)
	}

	residents := make(map[city.RoomID]int)
	for i, a := range pop {
		if int(a.ID) != i {
			t.Fatalf("agent %d has id %d", i, a.ID)
		}
		residents[a.HomeRoom]++
		if a.Home != g.Room(a.HomeRoom).Coord {
			t.Fatalf("agent %d home %v does not match room %d at %v", i, a.Home, a.HomeRoom, g.Room(a.HomeRoom).Coord)
		}
		if a.Goal != a.Home {
			t.Fatalf("agent %d should start heading for home coordinate", i)
		}
	}
	for id, n := range residents {
		if n > g.Room(id).Capacity {
			t.Fatalf("room %d overfilled: %d > %d", id, n, g.Room(id).Capacity)
		}
	}
}

func TestSpawnPopulationRejectsOvercrowding(t *testing.T) {
	g := smallGrid(t)
	_, err := NewSpawner(1).SpawnPopulation(g, smallSpawn(g.Capacity()+1))
	if !errors.Is(err, ErrNoHousing) {
		t.Fatalf("expected ErrNoHousing, got %v", err)
	}
}

func TestSpawnPopulationWithoutRetriesStillHousesEveryone(t *testing.T) {
	g := smallGrid(t)
	cfg := smallSpawn(g.Capacity())
	cfg.HomeRetries = 0
	if _, err := NewSpawner(5).SpawnPopulation(g, cfg); err != nil {
		t.Fatalf("scan fallback failed: %v", err)
	}
}

func TestSpawnPopulationDeterministic(t *testing.T) {
	g := smallGrid(t)
	a, err := NewSpawner(99).SpawnPopulation(g, smallSpawn(100))
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	b, err := NewSpawner(99).SpawnPopulation(g, smallSpawn(100))
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("agent %d differs between identical spawns:\n%+v\n%+v", i, a[i], b[i])
		}
	}
}

func TestSpawnedAgentAttributes(t *testing.T) {
	g := smallGrid(t)
	cfg := smallSpawn(200)
	pop, err := NewSpawner(3).SpawnPopulation(g, cfg)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	owls := 0
	for _, a := range pop {
		if a.Speed < cfg.Speed-cfg.SpeedSpread || a.Speed >= cfg.Speed+cfg.SpeedSpread {
			t.Fatalf("agent %d speed %v outside spread", a.ID, a.Speed)
		}
		if a.CrossMargin < city.SidewalkMin || a.CrossMargin >= city.SidewalkMax {
			t.Fatalf("agent %d cross margin %v outside [1,6)", a.ID, a.CrossMargin)
		}
		base := math.Pi
		if a.NightOwl {
			base = 0
			owls++
		}
		if math.Abs(a.Phase-base) > 0.25*math.Pi+1e-9 {
			t.Fatalf("agent %d phase %v too far from base %v", a.ID, a.Phase, base)
		}
		if a.Infected || a.Resistant || a.Virus != 0 || a.AtHome {
			t.Fatalf("agent %d should start healthy on the street: %+v", a.ID, a)
		}
	}
	if owls == 0 || owls == len(pop) {
		t.Fatalf("expected a mix of night owls, got %d of %d", owls, len(pop))
	}
}

func TestAgentTransitions(t *testing.T) {
	var a Agent
	if !a.Susceptible() || a.Status() != StatusHealthy {
		t.Fatalf("zero agent should be a susceptible healthy agent")
	}
	a.Masked = true
	if a.Status() != StatusMasked {
		t.Fatalf("masked agent status = %v", a.Status())
	}
	a.Infect()
	if !a.Infected || a.Virus != SeedVirus || a.Susceptible() || a.Status() != StatusInfected {
		t.Fatalf("infect left agent in %+v", a)
	}
	a.Recover()
	if a.Infected || !a.Resistant || a.Virus != 0 || a.Status() != StatusResistant {
		t.Fatalf("recover left agent in %+v", a)
	}
	a.Park()
	if !a.AtHome || a.Pos != HomeSentinel {
		t.Fatalf("park left agent at %v home=%v", a.Pos, a.AtHome)
	}
}
