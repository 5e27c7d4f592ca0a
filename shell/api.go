package shell

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"

	"github.com/domino14/towers/automatic"
	"github.com/domino14/towers/config"
	"github.com/domino14/towers/move"
	"github.com/domino14/towers/solver"
	"github.com/domino14/towers/stats"
)

const helpText = `commands:
solve [n] [-method recursive|iterative] [-print true|false] [-from A -to C -via B]
    - solve one tower; prints the moves for small towers
measure <n> [-method recursive|iterative|both] [-reps r]
    - timed, trimmed-mean measurement; recorded in the table
sweep [nmin nmax] [-method ...] [-parallel true|false]
    - measure every size in the range, stopping on the time budget
hist <n> [-method ...] [-trials t] [-bins b]
    - histogram of trial times
verify <n> - check both solvers emit the same move sequence
table [clear] - show (or clear) the result table
save [path] - write the table (.csv, .yaml, .db)
set [key value] - show or change a setting
writeconfig - save settings to the config file
exit - leave
`

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) dispatch(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "help":
		return msg(helpText), nil
	case "solve":
		return sc.solve(cmd)
	case "measure":
		return sc.measure(cmd)
	case "sweep":
		return sc.sweep(cmd)
	case "hist":
		return sc.hist(cmd)
	case "verify":
		return sc.verify(cmd)
	case "table":
		return sc.showTable(cmd)
	case "save":
		return sc.save(cmd)
	case "set":
		return sc.set(cmd)
	case "writeconfig":
		if err := sc.config.Write(); err != nil {
			return nil, err
		}
		return msg("wrote config"), nil
	}
	return nil, fmt.Errorf("command %q not found; try help", cmd.cmd)
}

func kindsFromOption(opt string, def []solver.Kind) ([]solver.Kind, error) {
	if opt == "" {
		return def, nil
	}
	return solver.ParseKinds(opt)
}

// configuredKinds is the method setting, validated at load and on set.
func (sc *ShellController) configuredKinds() []solver.Kind {
	kinds, err := solver.ParseKinds(sc.config.GetString(config.ConfigMethod))
	if err != nil {
		return solver.Kinds
	}
	return kinds
}

func diskArg(cmd *shellcmd) (int, error) {
	if len(cmd.args) == 0 {
		return 0, errors.New("please provide a number of disks")
	}
	return strconv.Atoi(cmd.args[0])
}

func pegOption(opts CmdOptions, key string, def move.Peg) (move.Peg, error) {
	v := opts.String(key)
	if v == "" {
		return def, nil
	}
	if len(v) != 1 {
		return 0, fmt.Errorf("peg %q must be a single character", v)
	}
	return move.Peg(v[0]), nil
}

func (sc *ShellController) runner() *automatic.Runner {
	return automatic.NewRunner(sc.config)
}

func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	n := sc.config.GetInt(config.ConfigDemoDisks)
	if len(cmd.args) > 0 {
		var err error
		if n, err = diskArg(cmd); err != nil {
			return nil, err
		}
	}
	kinds, err := kindsFromOption(cmd.options.String("method"), []solver.Kind{solver.Recursive})
	if err != nil {
		return nil, err
	}
	var pegs [3]move.Peg
	for i, p := range []struct {
		key string
		def move.Peg
	}{{"from", move.PegA}, {"to", move.PegC}, {"via", move.PegB}} {
		if pegs[i], err = pegOption(cmd.options, p.key, p.def); err != nil {
			return nil, err
		}
	}
	if err := solver.Validate(n, pegs[0], pegs[1], pegs[2]); err != nil {
		return nil, err
	}
	printMoves := n <= 6
	if _, ok := cmd.options["print"]; ok {
		printMoves = cmd.options.Bool("print")
	}

	var sb strings.Builder
	for _, kind := range kinds {
		var sink move.Sink
		var count func() uint64
		var printer *move.Printer
		if printMoves {
			printer = move.NewPrinter(sc.out)
			sink, count = printer, printer.Count
		} else {
			c := &move.Counter{}
			sink, count = c, c.Count
		}
		depth := 0
		if kind == solver.Iterative {
			depth, err = solver.IterativeDepth(n, pegs[0], pegs[1], pegs[2], sink)
		} else {
			solver.RecursiveSolve(n, pegs[0], pegs[1], pegs[2], sink)
		}
		if printer != nil {
			printer.Flush()
		}
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&sb, "%v: %d moves (expected %d)", kind, count(), move.Expected(n))
		if kind == solver.Iterative {
			fmt.Fprintf(&sb, ", max stack depth %d", depth)
		}
		sb.WriteString("\n")
	}
	return msg(strings.TrimSuffix(sb.String(), "\n")), nil
}

func (sc *ShellController) measure(cmd *shellcmd) (*Response, error) {
	n, err := diskArg(cmd)
	if err != nil {
		return nil, err
	}
	kinds, err := kindsFromOption(cmd.options.String("method"), sc.configuredKinds())
	if err != nil {
		return nil, err
	}
	r := sc.runner()
	reps, err := cmd.options.IntDefault("reps", r.Repetitions())
	if err != nil {
		return nil, err
	}
	if reps < 1 {
		return nil, errors.New("reps must be at least 1")
	}
	r.SetRepetitions(reps)

	var sb strings.Builder
	for _, kind := range kinds {
		s, err := r.Measure(n, kind)
		if err != nil {
			return nil, err
		}
		sc.table.Upsert(n, kind, s.Mean, s.StdDev)
		fmt.Fprintf(&sb, "n=%d %v: mean %.9f s, stdev %.9f s over %d of %d trials\n",
			n, kind, s.Mean, s.StdDev, s.Samples, reps)
	}
	return msg(strings.TrimSuffix(sb.String(), "\n")), nil
}

func (sc *ShellController) sweep(cmd *shellcmd) (*Response, error) {
	nmin, nmax := sc.config.GetInt(config.ConfigNMin), sc.config.GetInt(config.ConfigNMax)
	if len(cmd.args) == 2 {
		var err error
		if nmin, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
		if nmax, err = strconv.Atoi(cmd.args[1]); err != nil {
			return nil, err
		}
	} else if len(cmd.args) != 0 {
		return nil, errors.New("usage: sweep [nmin nmax]")
	}
	if nmin < 0 || nmax < nmin || nmax > solver.MaxDisks {
		return nil, fmt.Errorf("bad range %d-%d", nmin, nmax)
	}
	kinds, err := kindsFromOption(cmd.options.String("method"), sc.configuredKinds())
	if err != nil {
		return nil, err
	}
	r := sc.runner()
	if _, ok := cmd.options["parallel"]; ok {
		r.SetParallel(cmd.options.Bool("parallel"))
	}
	log.Info().Int("nmin", nmin).Int("nmax", nmax).Int("reps", r.Repetitions()).
		Dur("budget", r.TimeBudget()).Msg("starting sweep")

	if err := r.SweepKinds(sc.ctx, nmin, nmax, kinds, sc.table); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("sweep done; table has %d rows", sc.table.Len())), nil
}

func (sc *ShellController) hist(cmd *shellcmd) (*Response, error) {
	n, err := diskArg(cmd)
	if err != nil {
		return nil, err
	}
	kinds, err := kindsFromOption(cmd.options.String("method"), []solver.Kind{solver.Iterative})
	if err != nil {
		return nil, err
	}
	trials, err := cmd.options.IntDefault("trials", 30)
	if err != nil {
		return nil, err
	}
	bins, err := cmd.options.IntDefault("bins", 10)
	if err != nil {
		return nil, err
	}
	if trials < 1 || bins < 1 {
		return nil, errors.New("trials and bins must be positive")
	}
	r := sc.runner()
	for _, kind := range kinds {
		ts, err := r.Trials(n, kind, trials)
		if err != nil {
			return nil, err
		}
		if err := writeHistogram(sc.out, n, kind, automatic.Seconds(ts), bins); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func writeHistogram(w io.Writer, n int, kind solver.Kind, secs []float64, bins int) error {
	st := &stats.Statistic{}
	for _, s := range secs {
		st.Push(s)
	}
	fmt.Fprintf(w, "n=%d %v: %d trials, mean %.9f s, stdev %.9f s, min %.9f s, max %.9f s\n",
		n, kind, st.Iterations(), st.Mean(), st.Stdev(), st.Min(), st.Max())
	if st.Iterations() == 0 || st.Min() == st.Max() {
		return nil
	}
	h := histogram.Hist(bins, secs)
	return histogram.Fprint(w, h, histogram.Linear(40))
}

func (sc *ShellController) verify(cmd *shellcmd) (*Response, error) {
	n, err := diskArg(cmd)
	if err != nil {
		return nil, err
	}
	if err := sc.runner().CheckSequence(n); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("n=%d: recursive and iterative sequences match (%d moves)",
		n, move.Expected(n))), nil
}

func (sc *ShellController) showTable(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 && cmd.args[0] == "clear" {
		sc.table.Clear()
		return msg("table cleared"), nil
	}
	return nil, sc.table.WriteCSV(sc.out)
}

func (sc *ShellController) save(cmd *shellcmd) (*Response, error) {
	path := sc.config.GetString(config.ConfigOutput)
	if len(cmd.args) > 0 {
		path = cmd.args[0]
	}
	if err := sc.table.WriteFile(sc.ctx, path); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("wrote %d rows to %s", sc.table.Len(), path)), nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		var sb strings.Builder
		for _, k := range sc.config.AllKeys() {
			fmt.Fprintf(&sb, "%s: %v\n", k, sc.config.Get(k))
		}
		return msg(strings.TrimSuffix(sb.String(), "\n")), nil
	}
	key := cmd.args[0]
	if len(cmd.args) == 1 {
		return msg(fmt.Sprintf("%s: %v", key, sc.config.Get(key))), nil
	}
	if err := sc.config.SetString(key, cmd.args[1]); err != nil {
		return nil, err
	}
	return msg("set " + key + " to " + cmd.args[1]), nil
}
