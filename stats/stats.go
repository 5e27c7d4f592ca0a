// Package stats summarises repeated timing samples.
package stats

import "math"

// Epsilon is the tolerance FuzzyEqual compares with. Trial times are
// nanosecond-resolution values expressed in seconds.
const Epsilon = 1e-9

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic keeps a running, untrimmed summary of trial times without
// storing them (Welford's online update).
type Statistic struct {
	n        int
	mean     float64
	m2       float64
	min, max float64
	last     float64
}

func (s *Statistic) Push(secs float64) {
	s.n++
	s.last = secs
	if s.n == 1 {
		s.mean, s.m2 = secs, 0
		s.min, s.max = secs, secs
		return
	}
	delta := secs - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (secs - s.mean)
	s.min = math.Min(s.min, secs)
	s.max = math.Max(s.max, secs)
}

func (s *Statistic) Mean() float64 { return s.mean }

// Variance is the sample (n-1) variance.
func (s *Statistic) Variance() float64 {
	if s.n < 2 {
		return 0
	}
	return s.m2 / float64(s.n-1)
}

// PopVariance divides by n, the way trimmed summaries do.
func (s *Statistic) PopVariance() float64 {
	if s.n == 0 {
		return 0
	}
	return s.m2 / float64(s.n)
}

func (s *Statistic) Stdev() float64    { return math.Sqrt(s.Variance()) }
func (s *Statistic) PopStdev() float64 { return math.Sqrt(s.PopVariance()) }
func (s *Statistic) Min() float64      { return s.min }
func (s *Statistic) Max() float64      { return s.max }
func (s *Statistic) Last() float64     { return s.last }
func (s *Statistic) Iterations() int   { return s.n }
