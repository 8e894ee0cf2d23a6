// Package shell ties the execution core together: it owns the session
// state (streams, prompt, history), the builtin registry, and the
// read-eval loop that feeds lines through the parser and executor.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/anmitsu/go-shlex"
	"github.com/spf13/afero"

	"github.com/conchsh/conch/core/chain"
	"github.com/conchsh/conch/core/config"
	"github.com/conchsh/conch/core/logger"
	"github.com/conchsh/conch/core/parse"
)

// Session is the shell's explicit context object. Every component that
// used to reach for process-wide state (the original streams, the
// prompt, the history log) goes through the session instead, so the
// stream swap/restore around builtins is testable in isolation.
type Session struct {
	fs afero.Fs

	// Effective standard streams. The FD router temporarily points
	// these at a builtin stage's descriptors.
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	prompt   string
	history  *History
	launcher *chain.Launcher

	// exit terminates the whole shell; injectable so tests observe
	// the status instead of dying.
	exit func(status int)

	// depth counts nested history re-invocations, bounded by maxDepth.
	depth    int
	maxDepth int
}

// NewSession builds a session over the given filesystem and standard
// streams.
func NewSession(cfg *config.Configuration, fs afero.Fs, stdin io.Reader, stdout, stderr io.Writer) *Session {
	return &Session{
		fs:       fs,
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
		prompt:   cfg.Prompt,
		history:  NewHistory(cfg.HistoryLimit),
		launcher: &chain.Launcher{Stdin: stdin, Stdout: stdout, Stderr: stderr},
		exit:     os.Exit,
		maxDepth: cfg.RecursionLimit,
	}
}

// Prompt returns the prompt printed before each command line.
func (s *Session) Prompt() string {
	return s.prompt + " "
}

// resolver maps command names to builtins, falling back to the process
// launcher. Resolution happens once per parsed stage.
func (s *Session) resolver() chain.Resolver {
	return func(name string) chain.Dispatch {
		if fn, ok := AllBuiltins[name]; ok {
			return chain.Dispatch{
				Kind: chain.DispatchBuiltin,
				Run:  func(sc *chain.SimpleCommand) int { return fn(s, sc) },
			}
		}
		return chain.Dispatch{Kind: chain.DispatchExternal, Run: s.launcher.Run}
	}
}

func (s *Session) builder() *parse.Builder {
	home, _ := os.UserHomeDir()
	return &parse.Builder{FS: s.fs, Resolve: s.resolver(), Home: home}
}

// Tokenize splits one input line into the token sequence the builder
// consumes. Quoted phrases stay together with their quotes attached;
// the builder strips them per token.
func Tokenize(line string) ([]string, error) {
	return shlex.Split(line, false)
}

// Interpret records the line in history, then parses and executes it.
func (s *Session) Interpret(line string) int {
	s.history.Add(line)
	return s.Eval(line)
}

// Eval parses and executes a line without touching history; history
// recalls re-enter here. The chain is torn down unconditionally, on
// error paths included.
func (s *Session) Eval(line string) int {
	tokens, err := Tokenize(line)
	if err != nil {
		fmt.Fprintf(s.stderr, "conch: syntax error: %v\n", err)
		return chain.InternalError
	}
	if len(tokens) == 0 {
		return 0
	}

	ch, err := s.builder().Parse(tokens)
	if err != nil {
		fmt.Fprintf(s.stderr, "conch: %v\n", err)
		return chain.InternalError
	}
	defer ch.Close()

	return chain.Execute(ch)
}

// Run drives the interactive read-eval loop until EOF or exit.
func (s *Session) Run() error {
	cfg := &readline.Config{
		Prompt: s.Prompt(),
		Stdin:  readline.NewCancelableStdin(s.stdin),
		Stdout: s.stdout,
		Stderr: s.stderr,
	}
	if err := cfg.Init(); err != nil {
		return err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		rl.SetPrompt(s.Prompt())
		line, err := rl.Readline()

		switch {
		case err == io.EOF:
			return nil

		case err == readline.ErrInterrupt:
			// Acknowledged only; the line is discarded and no child
			// is terminated.
			logger.Debugf("interrupt")
			continue

		case err != nil:
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		status := s.Interpret(line)
		logger.Debugf("command finished with status %d", status)
	}
}

// RunScript feeds lines from r through the interpreter, returning the
// status of the last command executed.
func (s *Session) RunScript(r io.Reader) int {
	status := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		status = s.Interpret(line)
	}
	if err := scanner.Err(); err != nil {
		logger.Errorf("script: %v", err)
		return chain.InternalError
	}
	return status
}
