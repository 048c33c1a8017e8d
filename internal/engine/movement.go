// Street navigation — a grid-biased walk. Agents move along one axis at a time,
// turn at road crossings near their goal, and bounce off the city edge.
package engine

import (
	"math"

	"github.com/talgya/contagion-city/internal/agents"
	"github.com/talgya/contagion-city/internal/city"
)

// move advances every street agent one tick.
func (s *Simulation) move(dt float64) {
	g := s.Grid
	s.forEach(func(_ int, a *agents.Agent) {
		if a.AtHome {
			a.Pos = agents.HomeSentinel
			return
		}
		Navigate(g, a)
		a.Pos = a.Pos.Add(a.Heading.Scale(a.Speed * dt))
		Reflect(g.Bounds, a)
	})
}

// Navigate updates the agent's heading for the coming step. Near a crossing
// within one tile of the goal it turns onto the other axis once its in-tile
// offset passes the randomized crossing margin; elsewhere it reverses if it
// is walking away from the goal.
func Navigate(g *city.Grid, a *agents.Agent) {
	local := g.Local(a.Pos)
	cur := city.Coord{X: int(local.X / g.TileSize), Y: int(local.Y / g.TileSize)}

	alongX := math.Abs(a.Heading.X) > 0.5

	var goalC, curC int
	var sgn, off float64
	if alongX {
		goalC, curC, sgn, off = a.Goal.X, cur.X, a.Heading.X, local.X
	} else {
		goalC, curC, sgn, off = a.Goal.Y, cur.Y, a.Heading.Y, local.Y
	}
	off -= float64(curC) * g.TileSize
	d := goalC - curC

	if absInt(d) <= 1 && g.IsRoad(curC) {
		half := g.TileSize / 2
		if (off > a.CrossMargin && off < half) || (off < g.TileSize-a.CrossMargin && off > half) {
			if alongX {
				a.Heading = city.Vec2{Y: toward(a.Goal.Y - cur.Y)}
			} else {
				a.Heading = city.Vec2{X: toward(a.Goal.X - cur.X)}
			}
			a.CrossMargin = a.Stream.Range(city.SidewalkMin, city.SidewalkMax)
		}
	} else if float64(d)*sgn < 0 {
		a.Heading = a.Heading.Neg()
	}
}

// Reflect bounces an agent that stepped outside b back inside, negating the
// heading component of each axis it crossed.
func Reflect(b city.Rect, a *agents.Agent) {
	switch {
	case a.Pos.X < b.MinX:
		a.Heading.X = -a.Heading.X
		a.Pos.X = math.Min(2*b.MinX-a.Pos.X, b.MaxX)
	case a.Pos.X > b.MaxX:
		a.Heading.X = -a.Heading.X
		a.Pos.X = math.Max(2*b.MaxX-a.Pos.X, b.MinX)
	}
	switch {
	case a.Pos.Y < b.MinY:
		a.Heading.Y = -a.Heading.Y
		a.Pos.Y = math.Min(2*b.MinY-a.Pos.Y, b.MaxY)
	case a.Pos.Y > b.MaxY:
		a.Heading.Y = -a.Heading.Y
		a.Pos.Y = math.Max(2*b.MaxY-a.Pos.Y, b.MinY)
	}
}

// toward returns the unit sign pointing along d; an aligned goal counts as positive.
func toward(d int) float64 {
	if d < 0 {
		return -1
	}
	return 1
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
