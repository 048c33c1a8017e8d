package engine

import (
	"golang.org/x/sync/errgroup"

	"github.com/talgya/contagion-city/internal/agents"
)

// minChunk keeps tiny populations from being split into goroutine-sized slivers.
const minChunk = 256

// forEach runs fn over every agent, splitting the arena into contiguous chunks
// processed concurrently. fn may only write the agent it is handed; all shared
// tables it reads were completed before forEach was entered. Returning from
// forEach is the stage barrier.
func (s *Simulation) forEach(fn func(i int, a *agents.Agent)) {
	n := len(s.Agents)
	if n == 0 {
		return
	}

	chunk := max((n+s.workers-1)/s.workers, minChunk)
	if chunk >= n {
		for i := range s.Agents {
			fn(i, &s.Agents[i])
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(s.workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				fn(i, &s.Agents[i])
			}
			return nil
		})
	}
	_ = g.Wait() // workers never fail; Wait is only the barrier
}
