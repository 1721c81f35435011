package generator

import (
	"testing"
	"time"
)

// seqSource replays fixed sequences. IntN reduces the next int modulo n.
type seqSource struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *seqSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	f := s.floats[s.fi%len(s.floats)]
	s.fi++
	return f
}

func (s *seqSource) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[s.ii%len(s.ints)] % n
	s.ii++
	return v
}

// strictSource fails the test if any randomness is drawn
type strictSource struct {
	t *testing.T
}

func (s strictSource) Float64() float64 {
	s.t.Helper()
	s.t.Fatal("unexpected Float64 draw")
	return 0
}

func (s strictSource) IntN(int) int {
	s.t.Helper()
	s.t.Fatal("unexpected IntN draw")
	return 0
}

var fixedNow = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }
