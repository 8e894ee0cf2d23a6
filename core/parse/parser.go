// Package parse turns a flat token sequence into an executable command
// chain: one Command per chain link, each a pipeline of SimpleCommand
// stages wired together with OS pipes and redirection files.
package parse

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/conchsh/conch/core/chain"
	"github.com/conchsh/conch/core/logger"
)

// Builder constructs command chains from tokens. The filesystem is
// used for redirection targets and glob expansion so parsing is fully
// testable against an in-memory fs.
type Builder struct {
	FS      afero.Fs
	Resolve chain.Resolver
	// Home is the directory substituted for a leading tilde.
	Home string
}

func isPipe(tok string) bool { return tok == "|" }

func isChainOperator(tok string) bool {
	switch tok {
	case ";", "&&", "||", "&":
		return true
	}
	return false
}

func isOutputRedirect(tok string) bool { return tok == ">" || tok == ">>" }
func isAppendRedirect(tok string) bool { return tok == ">>" }
func isInputRedirect(tok string) bool  { return tok == "<" }
func isStderrRedirect(tok string) bool { return tok == "2>" }

// ignored tokens are empty or pure whitespace; the tokenizer normally
// collapses these but they are tolerated anywhere.
func ignored(tok string) bool { return strings.TrimSpace(tok) == "" }

// Parse consumes the token sequence and produces a complete chain, or
// fails having released every resource allocated so far: descriptors
// held by the committed chain, by the pending link and by the pending
// stage, each owned independently until attached.
func (b *Builder) Parse(tokens []string) (*chain.Chain, error) {
	ch := &chain.Chain{}

	i := 0
	for i < len(tokens) {
		cmd := &chain.Command{}
		sc := chain.NewSimpleCommand()

		fail := func(err error) error {
			logger.Debugf("parse failed: %v", err)
			sc.CloseDescriptors()
			cmd.Close()
			ch.Close()
			return err
		}

		// Build one link, stopping at a chaining operator or the end
		// of input.
		for ; i < len(tokens) && !isChainOperator(tokens[i]); i++ {
			tok := tokens[i]
			switch {
			case isPipe(tok):
				// Two pipes in a row, or a pipe with nothing before
				// it, leave the current stage nameless.
				if sc.Name == "" {
					return nil, fail(fmt.Errorf("parse error near %q", tok))
				}
				if sc.Stdout != nil {
					return nil, fail(errors.New("cannot pipe to multiple commands"))
				}

				pr, pw, err := os.Pipe()
				if err != nil {
					return nil, fail(fmt.Errorf("pipe: %w", err))
				}

				sc.Stdout = pw
				sc.Dispatch = b.resolve(sc.Name)
				cmd.Append(sc)

				sc = chain.NewSimpleCommand()
				sc.Stdin = pr

			case isOutputRedirect(tok):
				if sc.Name == "" {
					return nil, fail(errors.New("output redirection encountered before command"))
				}
				if sc.Stdout != nil {
					return nil, fail(errors.New("cannot redirect output to multiple files"))
				}

				name, ok := nextFilename(tokens, &i)
				if !ok {
					return nil, fail(fmt.Errorf("missing file name after %q", tok))
				}

				flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
				if isAppendRedirect(tok) {
					flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
				}
				fd, err := b.FS.OpenFile(name, flags, 0644)
				if err != nil {
					return nil, fail(fmt.Errorf("%s: %w", name, err))
				}
				sc.Stdout = fd

			case isInputRedirect(tok):
				if sc.Stdin != nil {
					return nil, fail(errors.New("cannot redirect input from multiple files"))
				}

				name, ok := nextFilename(tokens, &i)
				if !ok {
					return nil, fail(fmt.Errorf("missing file name after %q", tok))
				}

				fd, err := b.FS.Open(name)
				if err != nil {
					return nil, fail(fmt.Errorf("%s: %w", name, err))
				}
				sc.Stdin = fd

			case isStderrRedirect(tok):
				if sc.Stderr != nil {
					return nil, fail(errors.New("cannot redirect stderr to multiple files"))
				}

				name, ok := nextFilename(tokens, &i)
				if !ok {
					return nil, fail(fmt.Errorf("missing file name after %q", tok))
				}

				fd, err := b.FS.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
				if err != nil {
					return nil, fail(fmt.Errorf("%s: %w", name, err))
				}
				sc.Stderr = fd

			case ignored(tok):
				continue

			case sc.Name == "" && strings.HasPrefix(tok, "!") && len(tok) > 1:
				// History recall shorthand: "!text" becomes
				// "history text" and the history builtin interprets
				// the remainder.
				sc.PushArg("history")
				sc.PushArg(tok[1:])

			default:
				words, err := b.expand(tok)
				if err != nil {
					return nil, fail(fmt.Errorf("%s: %w", tok, err))
				}
				for _, w := range words {
					sc.PushArg(w)
				}
			}
		}

		// Commit the still-open stage. A nameless stage that holds a
		// descriptor is a dangling pipe or redirection, e.g. "a |".
		if sc.Name != "" {
			sc.Dispatch = b.resolve(sc.Name)
			cmd.Append(sc)
		} else if sc.Stdin != nil || sc.Stdout != nil || sc.Stderr != nil {
			return nil, fail(errors.New("parse error: incomplete pipeline"))
		}

		if len(cmd.Stages) == 0 {
			if i < len(tokens) {
				return nil, fail(fmt.Errorf("parse error near %q", tokens[i]))
			}
			return nil, fail(errors.New("parse error: empty command"))
		}

		if i < len(tokens) {
			cmd.Operator = tokens[i]
			if cmd.Operator == "&" {
				cmd.Background = true
			}
			i++
		}

		ch.Append(cmd)
	}

	return ch, nil
}

func (b *Builder) resolve(name string) chain.Dispatch {
	if b.Resolve != nil {
		return b.Resolve(name)
	}
	return chain.Dispatch{Kind: chain.DispatchExternal}
}

// nextFilename advances past the redirection operator at *i to the
// first non-ignored token and returns it.
func nextFilename(tokens []string, i *int) (string, bool) {
	for *i+1 < len(tokens) {
		*i++
		if tok := tokens[*i]; !ignored(tok) {
			return tok, true
		}
	}
	return "", false
}
