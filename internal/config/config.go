// Package config assembles the run configuration: built-in defaults overlaid
// by an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/talgya/contagion-city/internal/agents"
	"github.com/talgya/contagion-city/internal/city"
	"github.com/talgya/contagion-city/internal/engine"
)

// ErrInvalid marks configuration rejected before the first tick.
var ErrInvalid = errors.New("invalid configuration")

// Config is everything a run needs.
type Config struct {
	Seed       uint64             `yaml:"seed"` // Master seed (0 = random)
	City       city.GenConfig     `yaml:"city"`
	Population agents.SpawnConfig `yaml:"population"`
	Disease    engine.Params      `yaml:"disease"`
	Policy     engine.Policy      `yaml:"policy"`
	Speed      float64            `yaml:"speed"`        // Initial time multiplier
	TickRealMs int                `yaml:"tick_real_ms"` // Real milliseconds per tick; 0 = as fast as possible
	AutoStart  bool               `yaml:"auto_start"`   // Start the clock immediately
	DBPath     string             `yaml:"db_path"`      // Results database; empty disables recording
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		City:       city.DefaultGenConfig(),
		Population: agents.DefaultSpawnConfig(),
		Disease:    engine.DefaultParams(),
		Speed:      engine.SpeedNormal,
		TickRealMs: 0,
		AutoStart:  true,
		DBPath:     "data/citysim.db",
	}
}

// Load reads a YAML file over the defaults. Fields missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section; all failures wrap ErrInvalid.
func (c Config) Validate() error {
	if err := c.City.Validate(); err != nil {
		return fmt.Errorf("%w: city: %v", ErrInvalid, err)
	}
	if err := c.Population.Validate(); err != nil {
		return fmt.Errorf("%w: population: %v", ErrInvalid, err)
	}
	if err := c.Disease.Validate(); err != nil {
		return fmt.Errorf("%w: disease: %v", ErrInvalid, err)
	}
	if c.Policy.HomeBound < 0 || c.Policy.HomeBound > c.Population.Count {
		return fmt.Errorf("%w: policy.home_bound %d outside [0, %d]", ErrInvalid, c.Policy.HomeBound, c.Population.Count)
	}
	if c.Policy.Masked < 0 || c.Policy.Masked > c.Population.Count {
		return fmt.Errorf("%w: policy.masked %d outside [0, %d]", ErrInvalid, c.Policy.Masked, c.Population.Count)
	}
	if c.Speed < 0 {
		return fmt.Errorf("%w: speed must not be negative, got %v", ErrInvalid, c.Speed)
	}
	if c.TickRealMs < 0 {
		return fmt.Errorf("%w: tick_real_ms must not be negative, got %d", ErrInvalid, c.TickRealMs)
	}
	return nil
}

// TickInterval returns the real-time pacing of the engine loop.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickRealMs) * time.Millisecond
}
