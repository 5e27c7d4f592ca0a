package solver

import "github.com/domino14/towers/move"

// RecursiveSolve is the reference strategy: move n-1 disks out of the way,
// move disk n, then move the n-1 disks back on top of it.
func RecursiveSolve(n int, from, to, via move.Peg, sink move.Sink) {
	if n <= 0 {
		return
	}
	RecursiveSolve(n-1, from, via, to, sink)
	sink.Emit(move.Move{Disk: n, From: from, To: to})
	RecursiveSolve(n-1, via, to, from, sink)
}
