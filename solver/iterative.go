package solver

import (
	"fmt"
	"unsafe"

	"github.com/pbnjay/memory"

	"github.com/domino14/towers/move"
)

// Phase records how far a suspended sub-problem has progressed.
type Phase uint8

const (
	// PreLeft: nothing done yet; the left sub-tower must be moved first.
	PreLeft Phase = iota
	// PreRight: the left sub-tower is out of the way. The pivot move is
	// next, followed by the right sub-tower.
	PreRight
)

// Frame is one suspended call of the recursive procedure.
type Frame struct {
	Count int
	From  move.Peg
	To    move.Peg
	Via   move.Peg
	Phase Phase
}

var frameSize = uint64(unsafe.Sizeof(Frame{}))

// totalMemory is swapped out in tests.
var totalMemory = memory.TotalMemory

// newStack reserves room for the deepest chain of suspended frames, which
// for n disks is n (one PreRight frame per level).
func newStack(n int) ([]Frame, error) {
	need := uint64(n) * frameSize
	if total := totalMemory(); total > 0 && need > total/2 {
		return nil, fmt.Errorf("%w: %d frames need %d bytes, system has %d",
			ErrAllocation, n, need, total)
	}
	return make([]Frame, 0, n), nil
}

// IterativeSolve emits the same moves as RecursiveSolve without growing
// the call stack.
func IterativeSolve(n int, from, to, via move.Peg, sink move.Sink) error {
	_, err := IterativeDepth(n, from, to, via, sink)
	return err
}

// IterativeDepth is IterativeSolve that also reports the largest number of
// frames that were on the stack at once.
func IterativeDepth(n int, from, to, via move.Peg, sink move.Sink) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDiskCount, n)
	}
	if n == 0 {
		return 0, nil
	}
	stack, err := newStack(n)
	if err != nil {
		return 0, err
	}
	stack = append(stack, Frame{Count: n, From: from, To: to, Via: via, Phase: PreLeft})
	maxDepth := len(stack)

	for len(stack) > 0 {
		top := len(stack) - 1
		f := stack[top]
		stack = stack[:top]

		if f.Count == 0 {
			continue
		}
		switch f.Phase {
		case PreLeft:
			f.Phase = PreRight
			stack = append(stack, f)
			if f.Count > 1 {
				stack = append(stack, Frame{Count: f.Count - 1, From: f.From, To: f.Via, Via: f.To, Phase: PreLeft})
			}
		case PreRight:
			sink.Emit(move.Move{Disk: f.Count, From: f.From, To: f.To})
			if f.Count > 1 {
				stack = append(stack, Frame{Count: f.Count - 1, From: f.Via, To: f.To, Via: f.From, Phase: PreLeft})
			}
		}
		if len(stack) > maxDepth {
			maxDepth = len(stack)
		}
	}
	return maxDepth, nil
}
