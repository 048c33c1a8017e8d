package engine

import "github.com/talgya/contagion-city/internal/city"

// RoomTally is one room's aggregate over the agents currently at home in it.
type RoomTally struct {
	Count      int     `json:"count"`
	Virus      float64 `json:"virus"`
	Antibodies float64 `json:"antibodies"`
}

// Risk classifies a room for presentation.
type Risk uint8

const (
	RiskNeutral   Risk = iota
	RiskOutbreak       // Summed viral load above the outbreak threshold
	RiskProtected      // Summed antibodies above the protected threshold
)

func (r Risk) String() string {
	switch r {
	case RiskOutbreak:
		return "outbreak"
	case RiskProtected:
		return "protected"
	default:
		return "neutral"
	}
}

// tallyRooms recounts every room from the settled agent states. It runs
// sequentially after all per-agent stages have finished.
func (s *Simulation) tallyRooms() {
	clear(s.rooms)
	for i := range s.Agents {
		a := &s.Agents[i]
		if !a.AtHome {
			continue
		}
		r := &s.rooms[a.HomeRoom]
		r.Count++
		r.Virus += a.Virus
		r.Antibodies += a.Antibodies
	}
}

// RoomTally returns the current tally of a room.
func (s *Simulation) RoomTally(id city.RoomID) RoomTally {
	return s.rooms[id]
}

// Occupancy returns the fraction of a room's capacity currently at home.
func (s *Simulation) Occupancy(id city.RoomID) float64 {
	capacity := s.Grid.Room(id).Capacity
	if capacity == 0 {
		return 0
	}
	return float64(s.rooms[id].Count) / float64(capacity)
}

// RoomRisk classifies a room by its summed viral load and antibodies.
func (s *Simulation) RoomRisk(id city.RoomID) Risk {
	t := s.rooms[id]
	switch {
	case t.Virus > s.Params.OutbreakThreshold:
		return RiskOutbreak
	case t.Antibodies > s.Params.ProtectedThreshold:
		return RiskProtected
	default:
		return RiskNeutral
	}
}
