// Package move holds the atomic relocation event emitted by the solvers
// and the sinks that consume it.
package move

import (
	"fmt"
)

// Peg is the symbol of one of the three rods. Solvers never interpret it.
type Peg byte

const (
	PegA Peg = 'A'
	PegB Peg = 'B'
	PegC Peg = 'C'
)

func (p Peg) String() string {
	return string(rune(p))
}

// Move is a move. It relocates the top disk of From onto To. Disk is the
// rank of the disk, 1 being the smallest.
type Move struct {
	Disk int
	From Peg
	To   Peg
}

func (m Move) String() string {
	return fmt.Sprintf("disk %d from %v to %v", m.Disk, m.From, m.To)
}

// ShortDescription is the compact form used in logs, e.g. "3:A>C".
func (m Move) ShortDescription() string {
	return fmt.Sprintf("%d:%v>%v", m.Disk, m.From, m.To)
}

// Expected returns the closed-form number of moves for n disks, 2^n - 1.
// n must be in [0, 64].
func Expected(n int) uint64 {
	if n <= 0 {
		return 0
	}
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(n)) - 1
}
