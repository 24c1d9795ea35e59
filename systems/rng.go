// Package systems contains the scene animators: water, insects, sea stars
// and the two floral strategies.
package systems

import "math/rand/v2"

// Seeded is a deterministic random source whose state can be cloned.
// Two clones taken from the same state produce identical sequences.
type Seeded struct {
	src *rand.PCG
	r   *rand.Rand
}

// NewSeeded creates a source from a seed.
func NewSeeded(seed uint64) *Seeded {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Seeded{src: src, r: rand.New(src)}
}

// Clone returns an independent copy of the current state.
func (s *Seeded) Clone() *Seeded {
	cp := *s.src
	return &Seeded{src: &cp, r: rand.New(&cp)}
}

// Float64 returns a value in [0,1).
func (s *Seeded) Float64() float64 {
	return s.r.Float64()
}

// Range returns a value in [lo,hi).
func (s *Seeded) Range(lo, hi float64) float64 {
	return lo + s.r.Float64()*(hi-lo)
}

// IntRange returns an int in [lo,hi].
func (s *Seeded) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.r.IntN(hi-lo+1)
}

// Chance reports true with probability p.
func (s *Seeded) Chance(p float64) bool {
	return s.r.Float64() < p
}

// Sign returns -1 or 1.
func (s *Seeded) Sign() float64 {
	if s.r.Float64() < 0.5 {
		return -1
	}
	return 1
}

// Int64 returns a non-negative int64, used to seed noise fields.
func (s *Seeded) Int64() int64 {
	return s.r.Int64()
}
