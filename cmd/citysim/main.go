// Command citysim runs the epidemic city simulation headless and records the
// statistics series of the run.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/contagion-city/internal/agents"
	"github.com/talgya/contagion-city/internal/city"
	"github.com/talgya/contagion-city/internal/config"
	"github.com/talgya/contagion-city/internal/engine"
	"github.com/talgya/contagion-city/internal/entropy"
	"github.com/talgya/contagion-city/internal/persistence"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("citysim — epidemic city simulation")

	// ── Configuration ────────────────────────────────────────────────
	cfg := config.Default()
	if path := os.Getenv("CITYSIM_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			slog.Error("failed to load config", "path", path, "error", err)
			os.Exit(1)
		}
		cfg = loaded
		slog.Info("config loaded", "path", path)
	}
	if dbPath := os.Getenv("CITYSIM_DB"); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("configuration rejected", "error", err)
		os.Exit(1)
	}

	if cfg.Seed == 0 {
		cfg.Seed = entropy.Seed()
	}
	if cfg.City.Seed == 0 {
		cfg.City.Seed = int64(cfg.Seed >> 1)
	}
	slog.Info("run seed", "seed", cfg.Seed)

	// ── City ─────────────────────────────────────────────────────────
	grid, err := city.Generate(cfg.City)
	if err != nil {
		slog.Error("failed to generate city", "error", err)
		os.Exit(1)
	}
	slog.Info("city ready", "grid", grid.String())

	// ── Population ───────────────────────────────────────────────────
	population, err := agents.NewSpawner(cfg.Seed).SpawnPopulation(grid, cfg.Population)
	if err != nil {
		if errors.Is(err, agents.ErrNoHousing) {
			slog.Error("population does not fit the city", "population", cfg.Population.Count, "capacity", grid.Capacity())
		} else {
			slog.Error("failed to spawn population", "error", err)
		}
		os.Exit(1)
	}

	// ── Simulation ───────────────────────────────────────────────────
	controls := engine.NewControls()
	controls.SetSpeed(cfg.Speed)
	controls.SetPolicy(cfg.Policy)

	sim, err := engine.NewSimulation(grid, population, cfg.Disease, controls)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}

	// ── Results database ─────────────────────────────────────────────
	var recorder *persistence.Recorder
	if cfg.DBPath != "" {
		db, err := openResults(cfg.DBPath)
		if err != nil {
			slog.Error("failed to open database", "path", cfg.DBPath, "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database opened", "path", cfg.DBPath)

		recorder, err = persistence.NewRecorder(db, cfg.Seed, len(population), cfg)
		if err != nil {
			slog.Error("failed to register run", "error", err)
			os.Exit(1)
		}
		sim.OnSample = recorder.Record
	}

	// ── Engine ───────────────────────────────────────────────────────
	eng := engine.NewEngine(controls)
	eng.Interval = cfg.TickInterval()
	eng.OnTick = func(_ uint64, dt float64) { sim.Step(dt) }
	eng.Done = func() bool { return sim.Ended }

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("\n%s people across %s rooms in %d×%d blocks.\n",
		humanize.Comma(int64(len(population))), humanize.Comma(int64(grid.RoomCount())),
		grid.BlockCount.X, grid.BlockCount.Y)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	if cfg.AutoStart {
		sim.Start()
	}
	eng.Run(ctx)

	// ── Results ──────────────────────────────────────────────────────
	if recorder != nil {
		if err := recorder.Finish(sim); err != nil {
			slog.Error("failed to record results", "error", err)
		}
	}

	out := sim.Outcome()
	fmt.Printf("\nDay %d after %s ticks.\n", sim.Day(), humanize.Comma(int64(sim.TickCount)))
	fmt.Printf("Healthy:   %s\n", humanize.Comma(int64(out.Healthy)))
	fmt.Printf("Infected:  %s\n", humanize.Comma(int64(out.Infected)))
	fmt.Printf("Recovered: %s\n", humanize.Comma(int64(out.Recovered)))
	fmt.Printf("Dead:      %s\n", humanize.Comma(int64(out.Dead)))
}

// openResults creates the database directory if needed and opens the results db.
func openResults(path string) (*persistence.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	return persistence.Open(path)
}
