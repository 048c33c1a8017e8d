// Diurnal schedule — each agent follows its own phase-shifted sine cycle,
// walking home when the cycle dips and heading back out when it rises.
package engine

import (
	"math"

	"github.com/talgya/contagion-city/internal/agents"
	"github.com/talgya/contagion-city/internal/city"
	"github.com/talgya/contagion-city/internal/entropy"
)

// CycleThreshold splits the schedule sine into "go home" and "go out".
const CycleThreshold = 0.25

// arriveDistance is the Manhattan tile distance at which a goal counts as reached.
const arriveDistance = 2

// Cycle returns the schedule value of an agent with the given phase at time t.
func Cycle(t, dayLength, phase float64) float64 {
	return math.Sin(t/dayLength*math.Pi + phase)
}

// schedule applies home/street transitions after movement.
func (s *Simulation) schedule() {
	g := s.Grid
	t, day := s.Time, s.Params.DayLength
	s.forEach(func(_ int, a *agents.Agent) {
		cycle := Cycle(t, day, a.Phase)
		switch {
		case !a.AtHome:
			commute(g, a, cycle)
		case cycle > CycleThreshold && !a.HomeBound:
			leaveHome(g, a)
		}
	})
}

// commute turns a street agent homeward when its cycle dips (or policy keeps
// it home) and resolves arrival at the current goal.
func commute(g *city.Grid, a *agents.Agent, cycle float64) {
	if (cycle < CycleThreshold && !a.HeadingHome) || a.HomeBound {
		a.HeadingHome = true
		a.Goal = a.Home
	}

	if g.TileOf(a.Pos).Manhattan(a.Goal) > arriveDistance {
		return
	}
	if a.HeadingHome {
		a.Park()
		return
	}
	a.Goal = NearbyGoal(g, &a.Stream, a.Goal)
}

// leaveHome places the agent on the sidewalk beside its building, facing
// along the road, with a fresh nearby goal.
func leaveHome(g *city.Grid, a *agents.Agent) {
	a.AtHome = false
	a.HeadingHome = false

	coord := a.Home
	inBlock := city.Coord{X: coord.X % g.TilesPerBlock, Y: coord.Y % g.TilesPerBlock}
	stepX := a.Stream.Float64() < 0.5
	if stepX {
		coord.X += toRoad(inBlock.X, g.TilesPerBlock)
	} else {
		coord.Y += toRoad(inBlock.Y, g.TilesPerBlock)
	}

	pos := g.TileOrigin(coord)
	across := g.SidewalkOffset(&a.Stream)
	along := a.Stream.Range(-g.TileSize/2, g.TileSize/2)

	var heading city.Vec2
	if stepX {
		// Road column beside the building: walk north/south.
		pos = pos.Add(city.Vec2{X: across, Y: along})
		heading = city.North
	} else {
		pos = pos.Add(city.Vec2{X: along, Y: across})
		heading = city.East
	}
	if a.Stream.Float64() > 0.5 {
		heading = heading.Neg()
	}

	a.Pos = pos
	a.Heading = heading
	Reflect(g.Bounds, a)
	a.Goal = NearbyGoal(g, &a.Stream, a.Goal)
}

// toRoad returns the step from a building tile at in-block offset inBlock to
// the nearer of the two roads bounding its block; ties go forward.
func toRoad(inBlock, tilesPerBlock int) int {
	if inBlock < tilesPerBlock-inBlock {
		return -inBlock
	}
	return tilesPerBlock - inBlock
}

// NearbyGoal offsets goal by up to three tiles per axis, mirroring any offset
// that would leave the grid interior.
func NearbyGoal(g *city.Grid, rng *entropy.Stream, goal city.Coord) city.Coord {
	d := city.Coord{X: rng.IntRange(-3, 4), Y: rng.IntRange(-3, 4)}
	if x := goal.X + d.X; x >= g.TileCount.X-2 || x <= 0 {
		d.X = -d.X
	}
	if y := goal.Y + d.Y; y >= g.TileCount.Y-2 || y <= 0 {
		d.Y = -d.Y
	}
	return goal.Add(d)
}
