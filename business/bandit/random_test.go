package bandit

// scriptedSource replays fixed draws so tests can force a branch.
type scriptedSource struct {
	floats []float64
	ints   []int
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.5
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scriptedSource) NormFloat64() float64 { return 0 }

func (s *scriptedSource) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	i := s.ints[0]
	s.ints = s.ints[1:]
	return i % n
}
