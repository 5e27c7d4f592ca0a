package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Summary is the outcome of one measured configuration, in seconds.
type Summary struct {
	Mean    float64
	StdDev  float64
	Samples int
}

// Invalid returns the sentinel summary used when a measurement had to be
// abandoned. Its mean is negative.
func Invalid() Summary {
	return Summary{Mean: -1}
}

func (s Summary) Valid() bool {
	return s.Mean >= 0 && !math.IsNaN(s.Mean) && !math.IsInf(s.Mean, 0)
}

// Trimmed summarises samples after dropping one minimum and one maximum,
// when there are more than two of them. The standard deviation is the
// population one over whatever samples are kept. samples is not modified.
func Trimmed(samples []float64) Summary {
	if len(samples) == 0 {
		return Summary{}
	}
	kept := slices.Clone(samples)
	if len(kept) > 2 {
		slices.Sort(kept)
		kept = kept[1 : len(kept)-1]
	}
	mean, std := stat.PopMeanStdDev(kept, nil)
	return Summary{Mean: mean, StdDev: std, Samples: len(kept)}
}
