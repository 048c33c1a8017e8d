package city

import "fmt"

// RoomID indexes Grid.Rooms.
type RoomID int32

// Room is one apartment unit agents live in.
type Room struct {
	ID       RoomID `json:"id"`
	Coord    Coord  `json:"coord"`    // Tile of the building holding the room
	Capacity int    `json:"capacity"` // Residents it can house
}

// Grid holds the immutable city geometry for a run.
type Grid struct {
	Bounds        Rect    `json:"bounds"`
	TileSize      float64 `json:"tile_size"`
	TilesPerBlock int     `json:"tiles_per_block"`
	TileCount     Coord   `json:"tile_count"`
	BlockCount    Coord   `json:"block_count"`
	Rooms         []Room  `json:"-"`
}

// Local converts a world position into grid-local units, shifted by half a
// tile so that tile centres fall on integer multiples of TileSize.
func (g *Grid) Local(p Vec2) Vec2 {
	return p.Sub(g.Bounds.Min()).Add(Vec2{X: g.TileSize / 2, Y: g.TileSize / 2})
}

// TileOf returns the tile a world position falls in.
func (g *Grid) TileOf(p Vec2) Coord {
	l := g.Local(p)
	return Coord{X: int(l.X / g.TileSize), Y: int(l.Y / g.TileSize)}
}

// TileOrigin returns the world position of a tile's centre.
func (g *Grid) TileOrigin(c Coord) Vec2 {
	return Vec2{
		X: float64(c.X)*g.TileSize + g.Bounds.MinX,
		Y: float64(c.Y)*g.TileSize + g.Bounds.MinY,
	}
}

// IsRoad reports whether a row or column index carries a road.
func (g *Grid) IsRoad(i int) bool {
	return i%g.TilesPerBlock == 0
}

// Room returns the room with the given id.
func (g *Grid) Room(id RoomID) Room {
	return g.Rooms[id]
}

// RoomCount returns the number of rooms in the city.
func (g *Grid) RoomCount() int {
	return len(g.Rooms)
}

// Capacity returns the total number of residents the city can house.
func (g *Grid) Capacity() int {
	total := 0
	for _, r := range g.Rooms {
		total += r.Capacity
	}
	return total
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(tiles=%dx%d, blocks=%dx%d, rooms=%d, capacity=%d)",
		g.TileCount.X, g.TileCount.Y, g.BlockCount.X, g.BlockCount.Y, g.RoomCount(), g.Capacity())
}
