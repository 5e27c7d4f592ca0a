// Package results accumulates per-size benchmark rows and writes them out.
package results

import (
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/domino14/towers/move"
	"github.com/domino14/towers/solver"
)

// Timing is a mean and standard deviation in seconds. The zero value means
// "not measured yet".
type Timing struct {
	Mean     float64
	StdDev   float64
	Measured bool
}

// Row is everything known about one tower size.
type Row struct {
	N         int
	Moves     uint64
	Recursive Timing
	Iterative Timing
}

// Timing returns the slot for kind.
func (r Row) Timing(kind solver.Kind) Timing {
	if kind == solver.Recursive {
		return r.Recursive
	}
	return r.Iterative
}

func (r *Row) slot(kind solver.Kind) *Timing {
	if kind == solver.Recursive {
		return &r.Recursive
	}
	return &r.Iterative
}

// Table is an ordered set of rows, unique by N. It is safe for concurrent
// use.
type Table struct {
	sync.Mutex
	rows []Row
}

func NewTable() *Table {
	return &Table{}
}

// Upsert records the timing of kind for n disks, creating the row if this
// is the first time n is seen. The other kind's slot is left alone.
func (t *Table) Upsert(n int, kind solver.Kind, mean, stdDev float64) {
	t.Lock()
	defer t.Unlock()
	idx, found := slices.BinarySearchFunc(t.rows, n, func(r Row, n int) int {
		return r.N - n
	})
	if !found {
		t.rows = slices.Insert(t.rows, idx, Row{N: n, Moves: move.Expected(n)})
	}
	*t.rows[idx].slot(kind) = Timing{Mean: mean, StdDev: stdDev, Measured: true}
}

// Get returns a copy of the row for n.
func (t *Table) Get(n int) (Row, bool) {
	t.Lock()
	defer t.Unlock()
	return lo.Find(t.rows, func(r Row) bool { return r.N == n })
}

// Rows returns a copy of all rows in ascending N.
func (t *Table) Rows() []Row {
	t.Lock()
	defer t.Unlock()
	return slices.Clone(t.rows)
}

// Sizes lists the tower sizes present in the table.
func (t *Table) Sizes() []int {
	return lo.Map(t.Rows(), func(r Row, _ int) int { return r.N })
}

// Clear drops every row.
func (t *Table) Clear() {
	t.Lock()
	defer t.Unlock()
	t.rows = nil
}

func (t *Table) Len() int {
	t.Lock()
	defer t.Unlock()
	return len(t.rows)
}
