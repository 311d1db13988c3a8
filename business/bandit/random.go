package bandit

import (
	"math/rand"
	"sync"
)

// RandomSource is the randomness the stochastic scorers draw from. Tests
// inject a seeded or scripted source to pin down exact branches.
type RandomSource interface {
	Float64() float64
	NormFloat64() float64
	Intn(n int) int
}

type globalSource struct{}

func (globalSource) Float64() float64     { return rand.Float64() }
func (globalSource) NormFloat64() float64 { return rand.NormFloat64() }
func (globalSource) Intn(n int) int       { return rand.Intn(n) }

// DefaultSource uses the process-wide math/rand generator, which is safe for
// concurrent use.
func DefaultSource() RandomSource {
	return globalSource{}
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededSource returns a reproducible source that can be shared between
// goroutines.
func NewSeededSource(seed int64) RandomSource {
	return &lockedSource{r: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *lockedSource) NormFloat64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.NormFloat64()
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}
