// City generation: lays out road rows/columns every TilesPerBlock tiles and
// fills the remaining tiles with apartment buildings. Room capacity varies by
// district using layered simplex noise so dense and sparse neighbourhoods form.
package city

import (
	"fmt"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds city generation parameters.
type GenConfig struct {
	Bounds           Rect    `yaml:"bounds"`
	TileSize         float64 `yaml:"tile_size"`          // World units per tile
	TilesPerBlock    int     `yaml:"tiles_per_block"`    // Road spacing in tiles
	RoomsPerBuilding int     `yaml:"rooms_per_building"` // Apartments per building tile
	PeoplePerRoom    int     `yaml:"people_per_room"`    // Mean residents per apartment
	DensitySpread    float64 `yaml:"density_spread"`     // 0 = uniform, 1 = capacity varies ±100%
	Seed             int64   `yaml:"seed"`               // Layout seed (0 = random)
}

// DefaultGenConfig returns a city of roughly 13×13 blocks.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Bounds:           Rect{MinX: 0, MinY: 0, MaxX: 720, MaxY: 720},
		TileSize:         20,
		TilesPerBlock:    3,
		RoomsPerBuilding: 4,
		PeoplePerRoom:    3,
		DensitySpread:    0.5,
		Seed:             0,
	}
}

// SmallTestConfig returns a tiny city for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Bounds:           Rect{MinX: 0, MinY: 0, MaxX: 200, MaxY: 200},
		TileSize:         20,
		TilesPerBlock:    3,
		RoomsPerBuilding: 2,
		PeoplePerRoom:    3,
		DensitySpread:    0,
		Seed:             42,
	}
}

// Validate rejects geometry the grid maths cannot work with.
func (cfg GenConfig) Validate() error {
	switch {
	case cfg.TileSize <= 0:
		return fmt.Errorf("tile_size must be positive, got %v", cfg.TileSize)
	case cfg.TilesPerBlock < 2:
		return fmt.Errorf("tiles_per_block must be at least 2, got %d", cfg.TilesPerBlock)
	case cfg.Bounds.Width() <= 0 || cfg.Bounds.Height() <= 0:
		return fmt.Errorf("bounds must have positive extent, got %+v", cfg.Bounds)
	case cfg.RoomsPerBuilding <= 0:
		return fmt.Errorf("rooms_per_building must be positive, got %d", cfg.RoomsPerBuilding)
	case cfg.PeoplePerRoom <= 0:
		return fmt.Errorf("people_per_room must be positive, got %d", cfg.PeoplePerRoom)
	case cfg.DensitySpread < 0 || cfg.DensitySpread > 1:
		return fmt.Errorf("density_spread must be within [0,1], got %v", cfg.DensitySpread)
	}
	return nil
}

// Generate creates the city grid and its room table.
func Generate(cfg GenConfig) (*Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("city config: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	density := opensimplex.NewNormalized(seed)

	tiles := Coord{
		X: int(cfg.Bounds.Width()/cfg.TileSize) + cfg.TilesPerBlock,
		Y: int(cfg.Bounds.Height()/cfg.TileSize) + cfg.TilesPerBlock,
	}
	g := &Grid{
		Bounds:        cfg.Bounds,
		TileSize:      cfg.TileSize,
		TilesPerBlock: cfg.TilesPerBlock,
		TileCount:     tiles,
		BlockCount:    Coord{X: tiles.X / cfg.TilesPerBlock, Y: tiles.Y / cfg.TilesPerBlock},
	}

	for x := 0; x < tiles.X-cfg.TilesPerBlock; x++ {
		for y := 0; y < tiles.Y-cfg.TilesPerBlock; y++ {
			if g.IsRoad(x) || g.IsRoad(y) {
				continue
			}
			n := octaveNoise(density, float64(x), float64(y), 3, 0.07, 0.5)
			capacity := roomCapacity(cfg, n)
			for h := 0; h < cfg.RoomsPerBuilding; h++ {
				g.Rooms = append(g.Rooms, Room{
					ID:       RoomID(len(g.Rooms)),
					Coord:    Coord{X: x, Y: y},
					Capacity: capacity,
				})
			}
		}
	}

	if len(g.Rooms) == 0 {
		return nil, fmt.Errorf("city bounds %+v too small for a single building", cfg.Bounds)
	}
	return g, nil
}

// roomCapacity scales PeoplePerRoom by the district density n ∈ [0,1].
func roomCapacity(cfg GenConfig, n float64) int {
	scale := 1 + cfg.DensitySpread*(2*n-1)
	c := int(math.Round(float64(cfg.PeoplePerRoom) * scale))
	if c < 1 {
		c = 1
	}
	return c
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
