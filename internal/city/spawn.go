package city

import "github.com/talgya/contagion-city/internal/entropy"

// Sidewalk offsets keep pedestrians between 1 and 6 units inside a tile edge.
const (
	SidewalkMin = 1.0
	SidewalkMax = 6.0
)

// SidewalkOffset returns a random offset from a road centre line toward one
// of its two sidewalks.
func (g *Grid) SidewalkOffset(s *entropy.Stream) float64 {
	d := g.TileSize/2 - s.Range(SidewalkMin, SidewalkMax)
	if s.Bool() {
		return -d
	}
	return d
}

// SpawnPoint picks a random sidewalk position on a road inside the city and a
// cardinal heading along that road.
func (g *Grid) SpawnPoint(s *entropy.Stream) (pos, heading Vec2) {
	block := Coord{
		X: s.IntN(max(g.BlockCount.X-1, 1)),
		Y: s.IntN(max(g.BlockCount.Y-1, 1)),
	}

	alongX := s.Bool()
	dist := s.IntN(g.TilesPerBlock)

	tile := Coord{X: block.X * g.TilesPerBlock, Y: block.Y * g.TilesPerBlock}
	if alongX {
		tile.X += dist
		heading = East
	} else {
		tile.Y += dist
		heading = North
	}
	if s.Bool() {
		heading = heading.Neg()
	}

	pos = g.TileOrigin(tile)
	if dist > 0 {
		along := s.Range(-g.TileSize/2, g.TileSize/2)
		across := g.SidewalkOffset(s)
		if alongX {
			pos = pos.Add(Vec2{X: along, Y: across})
		} else {
			pos = pos.Add(Vec2{X: across, Y: along})
		}
	} else {
		// Intersection: stand on one of the four corners.
		pos = pos.Add(Vec2{X: g.SidewalkOffset(s), Y: g.SidewalkOffset(s)})
	}
	return pos, heading
}
