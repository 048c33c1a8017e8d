// Package entropy provides the seeded random streams behind every stochastic
// decision in the simulation. Each agent owns one Stream; a run is reproducible
// from its master seed alone. Falls back to crypto/rand when no seed is given.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
)

// Stream is a private pseudo-random stream. It is a plain value so it can live
// inline in an agent record and be advanced only by that agent's update.
type Stream struct {
	pcg mrand.PCG
}

// NewStream derives an independent stream from a master seed and a stream id.
func NewStream(seed, id uint64) Stream {
	var s Stream
	s.pcg.Seed(seed, splitmix(id))
	return s
}

// Uint64 returns the next raw 64-bit value.
func (s *Stream) Uint64() uint64 {
	return s.pcg.Uint64()
}

// Float64 returns a uniform float64 in [0, 1).
func (s *Stream) Float64() float64 {
	// Use only 53 bits for a uniform float64 in [0, 1).
	return float64(s.pcg.Uint64()>>11) / float64(1<<53)
}

// Range returns a uniform float64 in [lo, hi).
func (s *Stream) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*s.Float64()
}

// IntN returns a uniform int in [0, n). It panics if n <= 0; n must be below 2^31.
func (s *Stream) IntN(n int) int {
	if n <= 0 {
		panic("entropy: invalid argument to IntN")
	}
	return int(((s.pcg.Uint64() >> 32) * uint64(n)) >> 32)
}

// IntRange returns a uniform int in [lo, hi).
func (s *Stream) IntRange(lo, hi int) int {
	return lo + s.IntN(hi-lo)
}

// Bool returns true with probability 0.5.
func (s *Stream) Bool() bool {
	return s.pcg.Uint64()>>63 == 1
}

// splitmix spreads sequential stream ids across the PCG increment space.
func splitmix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Seed returns a fresh master seed from crypto/rand, used when a run is
// configured with seed 0.
func Seed() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen but return a fixed seed as a safe default.
		return 0x5eed
	}
	return binary.LittleEndian.Uint64(buf[:])
}
