// Package entropy provides the seeded random stream behind every stochastic
// simulation event. All draws consume one process-wide ordered sequence, so
// replaying a run requires only the original seed and action log.
package entropy

import "math/rand"

// Stream is a deterministic random source. One Stream drives the whole
// simulation; draw order is part of the replay contract.
type Stream struct {
	rng *rand.Rand
}

// NewStream creates a stream seeded at n.
func NewStream(n int64) *Stream {
	return &Stream{rng: rand.New(rand.NewSource(n))}
}

// Seed resets the stream to the start of the sequence for n.
func (s *Stream) Seed(n int64) {
	s.rng = rand.New(rand.NewSource(n))
}

// Float returns the next uniform float64 in [0, 1).
func (s *Stream) Float() float64 {
	return s.rng.Float64()
}

// IntN returns the next uniform int in [0, n). Panics if n <= 0, matching
// math/rand; callers guarantee non-empty ranges.
func (s *Stream) IntN(n int) int {
	return s.rng.Intn(n)
}

// Pick returns one element of xs chosen uniformly. xs must be non-empty.
func Pick[T any](s *Stream, xs []T) T {
	return xs[s.IntN(len(xs))]
}
