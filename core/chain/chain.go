// Package chain holds the shell's execution data model: a Chain of
// Commands, each an ordered pipeline of SimpleCommand stages, along
// with the executor and launcher that run them.
package chain

import "io"

// InternalError is the status reported for failures that aren't
// attributable to a child process: launch failures, wait failures and
// malformed chains.
const InternalError = -1

// DispatchKind tags how a stage is run.
type DispatchKind int

const (
	// DispatchExternal forks and execs the stage as an OS process.
	DispatchExternal DispatchKind = iota
	// DispatchBuiltin runs the stage inside the shell's own process.
	DispatchBuiltin
)

// Dispatch is a stage's resolved handler. It is resolved exactly once,
// at parse time, and never re-resolved during execution.
type Dispatch struct {
	Kind DispatchKind
	Run  func(*SimpleCommand) int
}

// Resolver maps a command name to its dispatch.
type Resolver func(name string) Dispatch

// SimpleCommand is one pipeline stage: a single builtin or external
// program invocation together with the descriptors it reads and
// writes.
type SimpleCommand struct {
	// Name is the resolved program or builtin name, always Args[0].
	Name string
	// Args holds the argument vector including the name. Unlike the
	// execv convention there is no trailing sentinel; the slice is
	// passed to os/exec as-is.
	Args []string

	// Stdin, Stdout and Stderr override the shell's inherited standard
	// streams. A nil field means the stage inherits the default.
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
	Stderr io.WriteCloser

	// NoWait marks stages of a backgrounded link; the executor must
	// not block on them.
	NoWait bool

	// Dispatch runs the stage. Set by the parser.
	Dispatch Dispatch

	// PID of the forked child, -1 for builtins and unstarted stages.
	PID int
}

// NewSimpleCommand returns an empty stage with default streams.
func NewSimpleCommand() *SimpleCommand {
	return &SimpleCommand{PID: -1}
}

// PushArg appends one argument. The first argument pushed also names
// the stage.
func (sc *SimpleCommand) PushArg(arg string) {
	sc.Args = append(sc.Args, arg)
	if len(sc.Args) == 1 {
		sc.Name = arg
	}
}

// CloseDescriptors releases every non-default descriptor the stage
// still holds. It is safe to call more than once.
func (sc *SimpleCommand) CloseDescriptors() {
	if sc.Stdin != nil {
		sc.Stdin.Close()
		sc.Stdin = nil
	}
	if sc.Stdout != nil {
		sc.Stdout.Close()
		sc.Stdout = nil
	}
	if sc.Stderr != nil {
		sc.Stderr.Close()
		sc.Stderr = nil
	}
}

// Command is one chain link: a pipeline of one or more stages, the
// operator that terminated it and whether it runs in the background.
// A Command with zero stages is a parse error and is never added to a
// chain.
type Command struct {
	Stages     []*SimpleCommand
	Background bool
	// Operator is the chaining operator that followed the link:
	// ";", "&&", "||", "&", or "" for the final link.
	Operator string
}

// Append adds a finished stage to the pipeline.
func (c *Command) Append(sc *SimpleCommand) {
	c.Stages = append(c.Stages, sc)
}

// Close releases the descriptors of every stage in the link.
func (c *Command) Close() {
	for _, sc := range c.Stages {
		sc.CloseDescriptors()
	}
}

// Chain is the full ordered sequence of links parsed from one input
// line. Ownership of every stage's descriptors rolls up to the chain
// once a link is appended, so Close is the single teardown point.
type Chain struct {
	Commands []*Command
}

// Append adds a finished link to the chain.
func (ch *Chain) Append(c *Command) {
	ch.Commands = append(ch.Commands, c)
}

// Close releases every descriptor still held by the chain's stages.
// It must be called after execution, including on error paths.
func (ch *Chain) Close() {
	if ch == nil {
		return
	}
	for _, c := range ch.Commands {
		c.Close()
	}
}
