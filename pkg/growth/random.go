package growth

import "math/rand"

// Source is the random stream consumed by a growth run. The engine draws
// exactly one Float64Range at start and at most one Bool per lateral
// direction per iteration, so equal streams give equal networks.
type Source interface {
	// Float64Range returns a uniform value in [min, max).
	Float64Range(min, max float64) float64
	// Bool returns true with probability p.
	Bool(p float64) bool
}

// RandSource is a Source backed by math/rand
type RandSource struct {
	rng *rand.Rand
}

// NewSource returns a Source seeded with seed
func NewSource(seed int64) *RandSource {
	return &RandSource{rng: rand.New(rand.NewSource(seed))}
}

// Float64Range implements Source
func (s *RandSource) Float64Range(min, max float64) float64 {
	return min + s.rng.Float64()*(max-min)
}

// Bool implements Source. It always consumes one draw, whatever p is.
func (s *RandSource) Bool(p float64) bool {
	return s.rng.Float64() < p
}
