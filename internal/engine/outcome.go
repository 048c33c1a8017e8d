package engine

import "math"

// Outcome summarises a finished run from its final sample.
type Outcome struct {
	Healthy   int `json:"healthy"`
	Infected  int `json:"infected"`
	Recovered int `json:"recovered"`
	Dead      int `json:"dead"`
}

// Day returns the 1-based day number of the simulated clock. One day spans
// two schedule half-cycles.
func (s *Simulation) Day() int {
	return int(s.Time/(2*s.Params.DayLength)) + 1
}

// Outcome derives the final tally, splitting resistant agents into the dead
// and the recovered by the configured fatality fraction. Falls back to a live
// tally when nothing has been sampled yet.
func (s *Simulation) Outcome() Outcome {
	last, ok := s.Series.Last()
	if !ok {
		last = Tally(s.Agents)
	}
	dead := int(math.Floor(float64(last.Resistant) * s.Params.FatalityFraction))
	return Outcome{
		Healthy:   last.Healthy,
		Infected:  last.Infected,
		Recovered: last.Resistant - dead,
		Dead:      dead,
	}
}
