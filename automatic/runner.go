// Package automatic runs the timed benchmark: single trials, repeated
// measurements and ascending sweeps over tower sizes.
package automatic

import (
	"expvar"
	"fmt"
	"time"

	"github.com/domino14/towers/config"
	"github.com/domino14/towers/move"
	"github.com/domino14/towers/solver"
)

var (
	TrialCounter *expvar.Int
	IsSweeping   *expvar.Int
)

func init() {
	TrialCounter = expvar.NewInt("trialCount")
	IsSweeping = expvar.NewInt("isSweeping")
}

// Clock reads the current time. time.Now outside of tests.
type Clock func() time.Time

// solveFunc has the shape of solver.Solve.
type solveFunc func(kind solver.Kind, n int, from, to, via move.Peg, sink move.Sink) error

// Runner is the master struct for benchmarking. A Runner is not safe for
// concurrent use except through SweepAll.
type Runner struct {
	repetitions    int
	timeBudget     time.Duration
	parallel       bool
	verifySequence bool

	from, to, via move.Peg

	clock Clock
	solve solveFunc
}

// NewRunner builds a runner from the benchmark settings in cfg.
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{
		repetitions:    cfg.GetInt(config.ConfigRepetitions),
		timeBudget:     cfg.GetDuration(config.ConfigTimeBudget),
		parallel:       cfg.GetBool(config.ConfigParallel),
		verifySequence: cfg.GetBool(config.ConfigVerifySequence),
		from:           move.PegA,
		to:             move.PegC,
		via:            move.PegB,
		clock:          time.Now,
		solve:          solver.Solve,
	}
}

func (r *Runner) SetRepetitions(n int) {
	r.repetitions = n
}

func (r *Runner) SetTimeBudget(d time.Duration) {
	r.timeBudget = d
}

func (r *Runner) SetParallel(p bool) {
	r.parallel = p
}

func (r *Runner) SetVerifySequence(v bool) {
	r.verifySequence = v
}

func (r *Runner) SetClock(c Clock) {
	r.clock = c
}

// SetPegs changes the peg symbols used for every solve.
func (r *Runner) SetPegs(from, to, via move.Peg) error {
	if err := solver.Validate(0, from, to, via); err != nil {
		return err
	}
	r.from, r.to, r.via = from, to, via
	return nil
}

func (r *Runner) Repetitions() int {
	return r.repetitions
}

func (r *Runner) TimeBudget() time.Duration {
	return r.timeBudget
}

func (r *Runner) Parallel() bool {
	return r.parallel
}

func (r *Runner) VerifySequence() bool {
	return r.verifySequence
}

// VerificationError means a solver emitted the wrong number of moves. That
// is a bug in the solver, so it is never retried.
type VerificationError struct {
	N    int
	Kind solver.Kind
	Got  uint64
	Want uint64
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("wrong move count for n=%d (%v): %d instead of %d",
		e.N, e.Kind, e.Got, e.Want)
}

// SequenceMismatchError means the two solvers disagree on the move order.
type SequenceMismatchError struct {
	N         int
	Recursive uint64
	Iterative uint64
}

func (e *SequenceMismatchError) Error() string {
	return fmt.Sprintf("move sequences differ for n=%d: recursive digest %016x, iterative %016x",
		e.N, e.Recursive, e.Iterative)
}
