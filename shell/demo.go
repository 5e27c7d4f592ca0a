package shell

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/towers/move"
	"github.com/domino14/towers/solver"
)

// ReadDiskCount prompts for a disk count on w and reads one line from r.
// Anything that is not a whole number between 1 and solver.MaxDisks falls
// back to fallback.
func ReadDiskCount(r io.Reader, w io.Writer, fallback int) int {
	fmt.Fprint(w, "Number of disks: ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		log.Debug().Err(err).Msg("no disk count read")
	}
	n, perr := strconv.Atoi(strings.TrimSpace(line))
	if perr != nil || n < 1 || n > solver.MaxDisks {
		fmt.Fprintf(w, "Invalid disk count. Using the default value (%d).\n", fallback)
		return fallback
	}
	return n
}

// DemoResult is what a demonstration solve printed in its summary.
type DemoResult struct {
	Moves    uint64
	Elapsed  time.Duration
	Expected uint64
}

// RunDemo solves n disks with kind, printing every move and then a summary
// to w. The time includes printing.
func RunDemo(w io.Writer, n int, kind solver.Kind) (DemoResult, error) {
	p := move.NewPrinter(w)
	start := time.Now()
	err := solver.Solve(kind, n, move.PegA, move.PegC, move.PegB, p)
	elapsed := time.Since(start)
	if ferr := p.Flush(); err == nil {
		err = ferr
	}
	if err != nil {
		return DemoResult{}, err
	}
	res := DemoResult{Moves: p.Count(), Elapsed: elapsed, Expected: move.Expected(n)}
	fmt.Fprintf(w, "\n=== SUMMARY (%v) ===\n", kind)
	fmt.Fprintf(w, "Moves : %d\n", res.Moves)
	fmt.Fprintf(w, "Time : %.6f s\n", res.Elapsed.Seconds())
	fmt.Fprintf(w, "Theoretical (2^%d - 1) : %d\n", n, res.Expected)
	return res, nil
}
