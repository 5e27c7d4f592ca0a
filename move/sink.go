package move

import (
	"bufio"
	"fmt"
	"hash"
	"io"

	"github.com/cespare/xxhash"
)

// Sink receives every move a solver emits, in order.
type Sink interface {
	Emit(m Move)
}

// Counter only counts moves. It is the sink used for timed trials.
type Counter struct {
	count uint64
}

func (c *Counter) Emit(Move) {
	c.count++
}

func (c *Counter) Count() uint64 {
	return c.count
}

func (c *Counter) Reset() {
	c.count = 0
}

// Printer counts moves and renders each one as a numbered line.
type Printer struct {
	Counter
	w *bufio.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: bufio.NewWriter(w)}
}

func (p *Printer) Emit(m Move) {
	p.count++
	fmt.Fprintf(p.w, "Move %d : disk %d from %v to %v\n", p.count, m.Disk, m.From, m.To)
}

// Flush writes out any buffered lines.
func (p *Printer) Flush() error {
	return p.w.Flush()
}

// Recorder keeps every move. Only use it for small disk counts.
type Recorder struct {
	Moves []Move
}

func (r *Recorder) Emit(m Move) {
	r.Moves = append(r.Moves, m)
}

// Digester folds the move stream into an xxhash digest, so two long
// sequences can be compared without keeping them in memory.
type Digester struct {
	Counter
	h   hash.Hash64
	buf [3]byte
}

func NewDigester() *Digester {
	return &Digester{h: xxhash.New()}
}

func (d *Digester) Emit(m Move) {
	d.count++
	d.buf[0] = byte(m.Disk)
	d.buf[1] = byte(m.From)
	d.buf[2] = byte(m.To)
	d.h.Write(d.buf[:])
}

func (d *Digester) Sum64() uint64 {
	return d.h.Sum64()
}
