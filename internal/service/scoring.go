package service

import "math"

// Scoring carries the configured score bounds and passing threshold shared by
// the grading and student services.
type Scoring struct {
	Min     float64
	Max     float64
	Passing float64
}

// DefaultScoring matches the vigesimal grading system used by the school.
func DefaultScoring() Scoring {
	return Scoring{Min: 0, Max: 20, Passing: 11}
}

// InRange reports whether score lies within the configured bounds.
func (s Scoring) InRange(score float64) bool {
	return score >= s.Min && score <= s.Max
}

// IsPassing reports whether score meets the passing threshold.
func (s Scoring) IsPassing(score float64) bool {
	return score >= s.Passing
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
