// Package solver moves a tower of disks between three pegs, either with
// plain recursion or with an explicit stack of resumable frames. Both
// strategies emit the same moves in the same order.
package solver

import (
	"errors"
	"fmt"

	"github.com/domino14/towers/move"
)

// MaxDisks is the largest tower whose move count fits in a uint64.
const MaxDisks = 63

var (
	ErrInvalidDiskCount = errors.New("invalid disk count")
	ErrSamePeg          = errors.New("pegs must be pairwise distinct")
	ErrAllocation       = errors.New("cannot allocate frame stack")
)

// Kind is a solving strategy.
type Kind int

const (
	Recursive Kind = iota
	Iterative
)

// Kinds lists every strategy in the order they are benchmarked.
var Kinds = []Kind{Recursive, Iterative}

func (k Kind) String() string {
	switch k {
	case Recursive:
		return "recursive"
	case Iterative:
		return "iterative"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	switch s {
	case "recursive", "rec", "r":
		return Recursive, nil
	case "iterative", "iter", "i":
		return Iterative, nil
	}
	return 0, fmt.Errorf("%q is not a solver kind (recursive, iterative)", s)
}

// ParseKinds is ParseKind that also accepts "both" (or "all") for every
// strategy.
func ParseKinds(s string) ([]Kind, error) {
	if s == "both" || s == "all" {
		return Kinds, nil
	}
	k, err := ParseKind(s)
	if err != nil {
		return nil, err
	}
	return []Kind{k}, nil
}

// Validate checks the preconditions shared by both strategies.
func Validate(n int, from, to, via move.Peg) error {
	if n < 0 || n > MaxDisks {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidDiskCount, n, MaxDisks)
	}
	if from == to || from == via || to == via {
		return fmt.Errorf("%w: %v %v %v", ErrSamePeg, from, to, via)
	}
	return nil
}

// Solve validates its input and dispatches to the strategy named by kind.
func Solve(kind Kind, n int, from, to, via move.Peg, sink move.Sink) error {
	if err := Validate(n, from, to, via); err != nil {
		return err
	}
	switch kind {
	case Recursive:
		RecursiveSolve(n, from, to, via, sink)
		return nil
	case Iterative:
		return IterativeSolve(n, from, to, via, sink)
	}
	return fmt.Errorf("unhandled solver kind %v", kind)
}
