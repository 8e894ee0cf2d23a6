package shell

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pborman/getopt/v2"

	"github.com/conchsh/conch/core/chain"
)

// AllBuiltins holds every registered shell builtin, keyed by name.
// The parser resolves against it once per stage; unknown names fall
// back to the process launcher.
var AllBuiltins = make(map[string]BuiltinFunc)

// BuiltinFunc runs one builtin stage in-process and returns its exit
// status.
type BuiltinFunc func(s *Session, sc *chain.SimpleCommand) int

func init() {
	AllBuiltins["cd"] = Cd
	AllBuiltins["pwd"] = Pwd
	AllBuiltins["exit"] = Exit
	AllBuiltins["history"] = HistoryBuiltin
	AllBuiltins["prompt"] = Prompt
	AllBuiltins["help"] = Help
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Cd changes the shell's working directory; with no argument it moves
// to the home directory.
func Cd(s *Session, sc *chain.SimpleCommand) int {
	var target string
	switch len(sc.Args) {
	case 1:
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(s.Stderr(), "cd: %v\n", err)
			return 1
		}
		target = home
	case 2:
		target = sc.Args[1]
	default:
		fmt.Fprintln(s.Stderr(), "cd: too many arguments")
		return 1
	}

	if err := os.Chdir(target); err != nil {
		fmt.Fprintf(s.Stderr(), "cd: %v\n", err)
		return 1
	}
	return 0
}

// Pwd writes the current working directory to the stage's stdout.
func Pwd(s *Session, sc *chain.SimpleCommand) int {
	if len(sc.Args) > 1 {
		fmt.Fprintln(s.Stderr(), "pwd: too many arguments")
		return 1
	}

	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(s.Stderr(), "pwd: %v\n", err)
		return 1
	}

	restore := s.routeIO(sc)
	defer restore()

	fmt.Fprintln(s.Stdout(), wd)
	return 0
}

// Exit terminates the whole shell with the given status, or 0 when
// omitted.
func Exit(s *Session, sc *chain.SimpleCommand) int {
	switch {
	case len(sc.Args) > 2:
		fmt.Fprintln(s.Stderr(), "exit: too many arguments")
		return 1
	case len(sc.Args) == 1:
		s.exit(0)
		return 0
	}

	if !allDigits(sc.Args[1]) {
		fmt.Fprintln(s.Stderr(), "exit: expects a numerical argument")
		return 1
	}

	status, _ := strconv.Atoi(sc.Args[1])
	s.exit(status)
	return 0
}

// Prompt replaces the shell's prompt string.
func Prompt(s *Session, sc *chain.SimpleCommand) int {
	switch {
	case len(sc.Args) < 2:
		fmt.Fprintln(s.Stderr(), "prompt: too few arguments")
		return 1
	case len(sc.Args) > 2:
		fmt.Fprintln(s.Stderr(), "prompt: too many arguments")
		return 1
	}

	s.prompt = sc.Args[1]
	return 0
}

// HistoryBuiltin lists recorded commands, or re-executes one selected
// by 1-based index or by prefix.
func HistoryBuiltin(s *Session, sc *chain.SimpleCommand) int {
	opts := getopt.New()
	clear := opts.Bool('c', "clear the history by deleting all entries")

	if err := opts.Getopt(sc.Args, nil); err != nil {
		fmt.Fprintf(s.Stderr(), "history: %v\n", err)
		return 1
	}

	args := opts.Args()
	switch {
	case *clear:
		s.history.Clear()
		return 0

	case len(args) > 1:
		fmt.Fprintln(s.Stderr(), "history: too many arguments")
		return 1

	case len(args) == 0:
		restore := s.routeIO(sc)
		defer restore()

		for i, line := range s.history.All() {
			fmt.Fprintf(s.Stdout(), "%d %s\n", i+1, line)
		}
		return 0
	}

	var recalled string
	var ok bool
	if allDigits(args[0]) {
		index, _ := strconv.Atoi(args[0])
		recalled, ok = s.history.At(index)
		if !ok {
			fmt.Fprintln(s.Stderr(), "history: invalid index")
			return 1
		}
	} else {
		recalled, ok = s.history.LastWithPrefix(args[0])
		if !ok {
			fmt.Fprintln(s.Stderr(), "history: no matching command found")
			return 1
		}
	}

	// A recalled command may itself recall history; bound the
	// re-entrancy instead of recursing forever.
	if s.depth >= s.maxDepth {
		fmt.Fprintln(s.Stderr(), "history: recursion limit reached")
		return 1
	}
	s.depth++
	defer func() { s.depth-- }()

	return s.Eval(recalled)
}

// Help lists the registered builtins.
func Help(s *Session, sc *chain.SimpleCommand) int {
	restore := s.routeIO(sc)
	defer restore()

	var names []string
	for name := range AllBuiltins {
		names = append(names, name)
	}
	sort.Strings(names)

	w := s.Stdout()
	fmt.Fprintln(w, "The following commands are handled by the shell itself:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Join(names, "\n"))
	return 0
}
