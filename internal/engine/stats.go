package engine

import "github.com/talgya/contagion-city/internal/agents"

// Sample is one full-population tally. The three counts are mutually exclusive.
type Sample struct {
	Time      float64 `json:"time"`
	Healthy   int     `json:"healthy"`
	Infected  int     `json:"infected"`
	Resistant int     `json:"resistant"`
}

// Total returns the population the sample covers.
func (s Sample) Total() int {
	return s.Healthy + s.Infected + s.Resistant
}

// Series is the ever-growing statistics log, one entry per category per sample.
type Series struct {
	Times     []float64 `json:"times"`
	Healthy   []int     `json:"healthy"`
	Infected  []int     `json:"infected"`
	Resistant []int     `json:"resistant"`
}

// Append adds one sample to the series.
func (s *Series) Append(x Sample) {
	s.Times = append(s.Times, x.Time)
	s.Healthy = append(s.Healthy, x.Healthy)
	s.Infected = append(s.Infected, x.Infected)
	s.Resistant = append(s.Resistant, x.Resistant)
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.Times)
}

// At returns the i-th sample.
func (s *Series) At(i int) Sample {
	return Sample{Time: s.Times[i], Healthy: s.Healthy[i], Infected: s.Infected[i], Resistant: s.Resistant[i]}
}

// Last returns the most recent sample, if any.
func (s *Series) Last() (Sample, bool) {
	if s.Len() == 0 {
		return Sample{}, false
	}
	return s.At(s.Len() - 1), true
}

// Tally counts infected, resistant and neither across a population.
func Tally(population []agents.Agent) Sample {
	var t Sample
	for i := range population {
		a := &population[i]
		switch {
		case a.Infected:
			t.Infected++
		case a.Resistant:
			t.Resistant++
		default:
			t.Healthy++
		}
	}
	return t
}

// sample appends one tally of the settled post-tick state.
func (s *Simulation) sample() {
	t := Tally(s.Agents)
	t.Time = s.Time
	s.Series.Append(t)
	s.LastSample = s.Time
	if s.OnSample != nil {
		s.OnSample(t)
	}
}
