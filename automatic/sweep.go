package automatic

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/towers/results"
	"github.com/domino14/towers/solver"
)

// ErrTimeBudget is returned by Sweep when it stopped early because a tower
// size took longer than the time budget. It is not a failure.
var ErrTimeBudget = errors.New("time budget exceeded")

// sequenceChecks runs CheckSequence at most once per tower size for all
// the sweeps sharing it, and keeps the mismatches it found.
type sequenceChecks struct {
	mu         sync.Mutex
	byN        map[int]*sequenceCheck
	mismatches []error
}

type sequenceCheck struct {
	once sync.Once
	err  error
}

func newSequenceChecks() *sequenceChecks {
	return &sequenceChecks{byN: make(map[int]*sequenceCheck)}
}

func (c *sequenceChecks) check(r *Runner, n int) error {
	c.mu.Lock()
	sc, ok := c.byN[n]
	if !ok {
		sc = &sequenceCheck{}
		c.byN[n] = sc
	}
	c.mu.Unlock()

	sc.once.Do(func() {
		sc.err = r.CheckSequence(n)
		var serr *SequenceMismatchError
		if errors.As(sc.err, &serr) {
			c.mu.Lock()
			c.mismatches = append(c.mismatches, sc.err)
			c.mu.Unlock()
		}
	})
	return sc.err
}

func (c *sequenceChecks) failures() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.mismatches)
}

// Sweep measures kind for every tower size from nMin to nMax, recording
// each valid summary in table. It stops at the first invalid measurement,
// or after recording a size whose mean exceeds the time budget. ctx is
// only checked between sizes. With sequence verification on, a size whose
// move orders differ is reported in the returned error without stopping
// the sweep.
func (r *Runner) Sweep(ctx context.Context, nMin, nMax int, kind solver.Kind, table *results.Table) error {
	checks := newSequenceChecks()
	err := r.sweep(ctx, nMin, nMax, kind, table, checks)
	if mismatches := checks.failures(); len(mismatches) > 0 {
		return errors.Join(append(mismatches, err)...)
	}
	return err
}

func (r *Runner) sweep(ctx context.Context, nMin, nMax int, kind solver.Kind,
	table *results.Table, checks *sequenceChecks) error {

	logger := zerolog.Ctx(ctx).With().Stringer("kind", kind).Logger()
	IsSweeping.Add(1)
	defer IsSweeping.Add(-1)

	for n := nMin; n <= nMax; n++ {
		if err := ctx.Err(); err != nil {
			logger.Info().Int("n", n).Msg("sweep-canceled")
			return err
		}
		logger.Info().Int("n", n).Msg("testing")

		if r.verifySequence {
			if err := checks.check(r, n); err != nil {
				var verr *VerificationError
				switch {
				case errors.As(err, &verr) && verr.Kind == kind:
					logger.Error().Err(err).Int("n", n).Msg("sequence check failed, stopping")
					return err
				case errors.As(err, &verr):
					// The other solver is wrong; its own sweep stops on it.
					logger.Debug().Err(err).Int("n", n).Msg("other solver failed its sequence check")
				default:
					logger.Error().Err(err).Int("n", n).Msg("sequence check failed, measuring anyway")
				}
			}
		}

		summary, err := r.Measure(n, kind)
		if err != nil || !summary.Valid() {
			var verr *VerificationError
			if errors.As(err, &verr) {
				logger.Error().Int("n", verr.N).Uint64("got", verr.Got).Uint64("want", verr.Want).
					Msg("wrong move count, stopping")
			} else {
				logger.Error().Err(err).Int("n", n).Msg("measurement failed, stopping")
			}
			if err == nil {
				err = fmt.Errorf("invalid measurement for n=%d (%v)", n, kind)
			}
			return err
		}

		table.Upsert(n, kind, summary.Mean, summary.StdDev)
		logger.Info().Int("n", n).Float64("mean", summary.Mean).
			Float64("stdev", summary.StdDev).Msg("done")

		if summary.Mean > r.timeBudget.Seconds() {
			logger.Info().Int("n", n).Dur("budget", r.timeBudget).
				Msg("mean over time budget, not trying larger towers")
			return ErrTimeBudget
		}
	}
	return nil
}

// SweepAll sweeps every solver kind over the same range.
func (r *Runner) SweepAll(ctx context.Context, nMin, nMax int, table *results.Table) error {
	return r.SweepKinds(ctx, nMin, nMax, solver.Kinds, table)
}

// SweepKinds runs one sweep per kind over the same range. Sweeps are
// independent: one stopping does not stop the others. With sequence
// verification on, each size is checked once for all of them. The returned
// error joins every sweep's failure and every sequence mismatch; stopping
// on the time budget is not a failure.
func (r *Runner) SweepKinds(ctx context.Context, nMin, nMax int, kinds []solver.Kind, table *results.Table) error {
	logger := zerolog.Ctx(ctx)
	tstart := time.Now()
	errs := make([]error, len(kinds))
	checks := newSequenceChecks()

	run := func(i int, kind solver.Kind) error {
		err := r.sweep(ctx, nMin, nMax, kind, table, checks)
		if errors.Is(err, ErrTimeBudget) {
			err = nil
		}
		errs[i] = err
		return err
	}

	if r.parallel {
		g := errgroup.Group{}
		for i, kind := range kinds {
			i, kind := i, kind
			g.Go(func() error {
				return run(i, kind)
			})
		}
		err := g.Wait()
		logger.Debug().Msgf("errgroup returned err %v", err)
	} else {
		for i, kind := range kinds {
			run(i, kind)
		}
	}
	logger.Info().Dur("elapsed", time.Since(tstart)).Int("rows", table.Len()).
		Bool("parallel", r.parallel).Msg("sweeps-finished")
	return errors.Join(append(errs, checks.failures()...)...)
}
