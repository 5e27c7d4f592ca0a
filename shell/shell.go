// Package shell is an interactive front end to the solvers and the
// benchmark runner.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/domino14/towers/config"
	"github.com/domino14/towers/results"
)

type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	config *config.Config
	table  *results.Table
	ctx    context.Context
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func NewShellController(cfg *config.Config) *ShellController {
	sc := &ShellController{config: cfg, table: results.NewTable(), ctx: context.Background()}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mtowers>\033[0m ",
		HistoryFile:     "/tmp/towers_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stdout()
	return sc
}

// newController builds a controller without a terminal; output goes to w.
func newController(cfg *config.Config, w io.Writer) *ShellController {
	return &ShellController{config: cfg, table: results.NewTable(), ctx: context.Background(), out: w}
}

// SetContext sets the context handed to sweeps, so a signal can stop them
// between tower sizes.
func (sc *ShellController) SetContext(ctx context.Context) {
	sc.ctx = ctx
}

func (sc *ShellController) Table() *results.Table {
	return sc.table
}

func (sc *ShellController) showMessage(msg string) {
	io.WriteString(sc.out, msg)
	io.WriteString(sc.out, "\n")
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

var errExit = errors.New("exit requested")

// executeLine runs a single line. It returns errExit when the line asks
// to leave the shell.
func (sc *ShellController) executeLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	cmd, err := extractFields(line)
	if err != nil {
		return err
	}
	if cmd.cmd == "exit" || cmd.cmd == "bye" || cmd.cmd == "quit" {
		return errExit
	}
	resp, err := sc.dispatch(cmd)
	if err != nil {
		return err
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return nil
}

// Execute runs one line non-interactively, then signals the caller to quit.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	if err := sc.executeLine(line); err != nil && !errors.Is(err, errExit) {
		sc.showError(err)
	}
	sig <- syscall.SIGINT
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		err = sc.executeLine(line)
		if errors.Is(err, errExit) {
			sig <- syscall.SIGINT
			break
		}
		if err != nil {
			sc.showError(err)
			log.Debug().Err(err).Str("line", strconv.Quote(line)).Msg("command-failed")
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup saves the table if anything was measured.
func (sc *ShellController) Cleanup() {
	if sc.table.Len() == 0 {
		return
	}
	out := sc.config.GetString(config.ConfigOutput)
	if err := sc.table.WriteFile(context.Background(), out); err != nil {
		log.Err(err).Str("path", out).Msg("could not save results")
		return
	}
	log.Info().Str("path", out).Int("rows", sc.table.Len()).Msg("saved results")
}
