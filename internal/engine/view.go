package engine

import (
	"github.com/talgya/contagion-city/internal/agents"
	"github.com/talgya/contagion-city/internal/city"
)

// RoomView is what presentation needs to draw one room.
type RoomView struct {
	ID        city.RoomID `json:"id"`
	Coord     city.Coord  `json:"coord"`
	Occupancy float64     `json:"occupancy"`
	Risk      Risk        `json:"risk"`
}

// AgentStatus returns the presentation class of an agent.
func (s *Simulation) AgentStatus(id agents.AgentID) agents.Status {
	return s.Agents[id].Status()
}

// StatusCounts counts agents per presentation class.
func (s *Simulation) StatusCounts() map[agents.Status]int {
	counts := make(map[agents.Status]int, 4)
	for i := range s.Agents {
		counts[s.Agents[i].Status()]++
	}
	return counts
}

// Rooms returns the occupancy and risk of every room.
func (s *Simulation) Rooms() []RoomView {
	views := make([]RoomView, 0, s.Grid.RoomCount())
	for _, r := range s.Grid.Rooms {
		views = append(views, RoomView{
			ID:        r.ID,
			Coord:     r.Coord,
			Occupancy: s.Occupancy(r.ID),
			Risk:      s.RoomRisk(r.ID),
		})
	}
	return views
}
