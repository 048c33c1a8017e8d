// Spatial hash aggregation — groups agents into interaction buckets by street
// cell or home room and reduces each bucket to count, position sum and viral sum.
package engine

import (
	"math"

	"github.com/talgya/contagion-city/internal/agents"
	"github.com/talgya/contagion-city/internal/city"
)

// Mask factors applied to viral shedding during aggregation.
const (
	MaskShedRep    = 0.35 // Masked bucket representative
	MaskShedMember = 0.4  // Any other masked member
)

// KeyKind tags which key space a BucketKey belongs to.
type KeyKind uint8

const (
	KeyCell KeyKind = iota // Street cell at floor(pos / interaction radius)
	KeyRoom                // Home room; X holds the room id
)

// BucketKey identifies an interaction bucket. Street cells and rooms live in
// separate key spaces, so cell (7,0) never collides with room 7.
type BucketKey struct {
	Kind KeyKind
	X, Y int32
}

// Bucket is one tick's aggregate over the agents sharing a key.
type Bucket struct {
	Key    BucketKey
	Rep    agents.AgentID // Lowest member index
	Count  int
	Virus  float64   // Sum of mask-modified member viral loads
	PosSum city.Vec2 // Sum of member positions
}

// Centroid returns the mean member position.
func (b Bucket) Centroid() city.Vec2 {
	return b.PosSum.Scale(1 / float64(b.Count))
}

// Buckets is the per-tick aggregation table. Keys and Slot are indexed by
// agent; List holds one entry per distinct key. Everything is rebuilt from
// scratch every tick.
type Buckets struct {
	Keys []BucketKey
	Slot []int32
	List []Bucket

	index map[BucketKey]int32
}

func (b *Buckets) reset(n int) {
	if cap(b.Keys) < n {
		b.Keys = make([]BucketKey, n)
		b.Slot = make([]int32, n)
	}
	b.Keys = b.Keys[:n]
	b.Slot = b.Slot[:n]
	b.List = b.List[:0]
	if b.index == nil {
		b.index = make(map[BucketKey]int32, n)
	} else {
		clear(b.index)
	}
}

// Of returns the bucket agent i belongs to.
func (b *Buckets) Of(i int) *Bucket {
	return &b.List[b.Slot[i]]
}

// BucketKeyFor returns the bucket key of a single agent.
func BucketKeyFor(a *agents.Agent, radius float64) BucketKey {
	if a.AtHome {
		return BucketKey{Kind: KeyRoom, X: int32(a.HomeRoom)}
	}
	return BucketKey{
		Kind: KeyCell,
		X:    int32(math.Floor(a.Pos.X / radius)),
		Y:    int32(math.Floor(a.Pos.Y / radius)),
	}
}

// Shed returns the viral load an agent contributes to its bucket.
func Shed(a *agents.Agent, rep bool) float64 {
	switch {
	case !a.Masked:
		return a.Virus
	case rep:
		return a.Virus * MaskShedRep
	default:
		return a.Virus * MaskShedMember
	}
}

// aggregate rebuilds the bucket table in three passes: key assignment (pure,
// parallel), an index-ordered fold into one slot per key, then a broadcast of
// each agent's slot. Folding in index order makes the float sums identical
// across runs and worker counts.
func (s *Simulation) aggregate() {
	b := &s.buckets
	b.reset(len(s.Agents))

	radius := s.Params.InteractionRadius
	s.forEach(func(i int, a *agents.Agent) {
		b.Keys[i] = BucketKeyFor(a, radius)
	})

	for i := range s.Agents {
		a := &s.Agents[i]
		key := b.Keys[i]
		slot, ok := b.index[key]
		if !ok {
			slot = int32(len(b.List))
			b.index[key] = slot
			b.List = append(b.List, Bucket{Key: key, Rep: a.ID})
		}
		bk := &b.List[slot]
		bk.Count++
		bk.PosSum = bk.PosSum.Add(a.Pos)
		bk.Virus += Shed(a, !ok)
	}

	s.forEach(func(i int, _ *agents.Agent) {
		b.Slot[i] = b.index[b.Keys[i]]
	})
}

// BucketOf returns the bucket agent i was aggregated into this tick.
func (s *Simulation) BucketOf(i int) Bucket {
	return *s.buckets.Of(i)
}

// BucketCount returns the number of distinct buckets formed this tick.
func (s *Simulation) BucketCount() int {
	return len(s.buckets.List)
}
