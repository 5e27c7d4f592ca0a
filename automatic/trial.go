package automatic

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/towers/move"
	"github.com/domino14/towers/solver"
	"github.com/domino14/towers/stats"
)

// Trial is one timed and verified solve.
type Trial struct {
	Elapsed time.Duration
	Moves   uint64
}

// RunTrial solves a tower of n disks once with kind and times only the
// solve itself.
func (r *Runner) RunTrial(n int, kind solver.Kind) (Trial, error) {
	counter := &move.Counter{}

	start := r.clock()
	err := r.solve(kind, n, r.from, r.to, r.via, counter)
	elapsed := r.clock().Sub(start)

	TrialCounter.Add(1)
	if err != nil {
		return Trial{}, fmt.Errorf("solving n=%d (%v): %w", n, kind, err)
	}
	if want := move.Expected(n); counter.Count() != want {
		return Trial{}, &VerificationError{N: n, Kind: kind, Got: counter.Count(), Want: want}
	}
	return Trial{Elapsed: elapsed, Moves: counter.Count()}, nil
}

// Measure runs the configured number of trials and summarises their times
// with a trimmed mean. If any trial fails, the measurement is abandoned and
// the invalid summary is returned alongside the error.
func (r *Runner) Measure(n int, kind solver.Kind) (stats.Summary, error) {
	trials, err := r.Trials(n, kind, r.repetitions)
	if err != nil {
		return stats.Invalid(), err
	}
	samples := Seconds(trials)
	running := &stats.Statistic{}
	for _, s := range samples {
		running.Push(s)
	}
	summary := stats.Trimmed(samples)
	log.Debug().Int("n", n).Stringer("kind", kind).
		Float64("min", running.Min()).Float64("max", running.Max()).
		Float64("untrimmed-mean", running.Mean()).
		Float64("trimmed-mean", summary.Mean).
		Msg("measured")
	return summary, nil
}

// Trials runs count trials and stops at the first failure.
func (r *Runner) Trials(n int, kind solver.Kind, count int) ([]Trial, error) {
	trials := make([]Trial, 0, count)
	for i := 0; i < count; i++ {
		t, err := r.RunTrial(n, kind)
		if err != nil {
			return nil, err
		}
		trials = append(trials, t)
	}
	return trials, nil
}

// Seconds converts trial durations to seconds.
func Seconds(trials []Trial) []float64 {
	return lo.Map(trials, func(t Trial, _ int) float64 {
		return t.Elapsed.Seconds()
	})
}

// CheckSequence solves n with both strategies and compares digests of the
// two move streams.
func (r *Runner) CheckSequence(n int) error {
	digests := make(map[solver.Kind]*move.Digester, len(solver.Kinds))
	for _, kind := range solver.Kinds {
		d := move.NewDigester()
		if err := r.solve(kind, n, r.from, r.to, r.via, d); err != nil {
			return fmt.Errorf("solving n=%d (%v): %w", n, kind, err)
		}
		if want := move.Expected(n); d.Count() != want {
			return &VerificationError{N: n, Kind: kind, Got: d.Count(), Want: want}
		}
		digests[kind] = d
	}
	rec, iter := digests[solver.Recursive].Sum64(), digests[solver.Iterative].Sum64()
	if rec != iter {
		return &SequenceMismatchError{N: n, Recursive: rec, Iterative: iter}
	}
	return nil
}
