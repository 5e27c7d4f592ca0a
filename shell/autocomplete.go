package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/towers/config"
)

// ShellCompleter completes command names, their -options, and the values
// of options and settings that take a fixed set of values.
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

type commandInfo struct {
	options []string
	args    []string
}

var commands = map[string]commandInfo{
	"help":        {},
	"solve":       {options: []string{"-method", "-print", "-from", "-to", "-via"}},
	"measure":     {options: []string{"-method", "-reps"}},
	"sweep":       {options: []string{"-method", "-parallel"}},
	"hist":        {options: []string{"-method", "-trials", "-bins"}},
	"verify":      {},
	"table":       {args: []string{"clear"}},
	"save":        {},
	"writeconfig": {},
	"exit":        {},
	"set": {args: []string{
		config.ConfigNMin, config.ConfigNMax, config.ConfigRepetitions,
		config.ConfigTimeBudget, config.ConfigOutput, config.ConfigParallel,
		config.ConfigVerifySequence, config.ConfigDebug, config.ConfigMethod,
	}},
}

// commandNames is the order commands are offered in.
var commandNames = []string{
	"help", "solve", "measure", "sweep", "hist", "verify", "table", "save",
	"set", "writeconfig", "exit",
}

var (
	boolValues   = []string{"true", "false"}
	methodValues = []string{"recursive", "iterative", "both"}
)

// optionValues are the values offered after "-option ".
var optionValues = map[string][]string{
	"method":   methodValues,
	"print":    boolValues,
	"parallel": boolValues,
}

// settingValues are the values offered after "set <key> ".
var settingValues = map[string][]string{
	config.ConfigParallel:       boolValues,
	config.ConfigVerifySequence: boolValues,
	config.ConfigDebug:          boolValues,
	config.ConfigMethod:         methodValues,
}

// Do implements readline.AutoCompleter. It returns the missing suffix of
// every candidate that extends the word under the cursor.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	fields, err := shellquote.Split(text)
	if err != nil {
		// unterminated quote
		fields = strings.Fields(text)
	}
	if strings.HasSuffix(text, " ") || len(fields) == 0 {
		// The word being completed is empty.
		fields = append(fields, "")
	}
	word := fields[len(fields)-1]

	var matches [][]rune
	for _, cand := range candidates(fields) {
		if strings.HasPrefix(cand, word) {
			matches = append(matches, []rune(cand[len(word):]))
		}
	}
	return matches, len(word)
}

// candidates lists what could go in the last position of fields.
func candidates(fields []string) []string {
	if len(fields) == 1 {
		return commandNames
	}
	info, ok := commands[fields[0]]
	if !ok {
		return nil
	}
	word, prev := fields[len(fields)-1], fields[len(fields)-2]
	if strings.HasPrefix(prev, "-") {
		return optionValues[prev[1:]]
	}
	if fields[0] == "set" && len(fields) == 3 {
		return settingValues[fields[1]]
	}
	if strings.HasPrefix(word, "-") || len(info.args) == 0 {
		return info.options
	}
	return info.args
}
