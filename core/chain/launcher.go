package chain

import (
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/conchsh/conch/core/logger"
)

// Launcher forks and execs external stages. The three streams are the
// shell's inherited standard streams; a stage without redirections of
// its own runs against them directly.
type Launcher struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes one external stage to completion, or starts it without
// waiting when NoWait is set. The result is 0 on success, the child's
// exit code on failure, or InternalError when the process could not be
// started or waited on.
func (l *Launcher) Run(stage *SimpleCommand) int {
	cmd := exec.Command(stage.Name)
	cmd.Args = stage.Args

	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr
	if stage.Stdin != nil {
		cmd.Stdin = stage.Stdin
	}
	if stage.Stdout != nil {
		cmd.Stdout = stage.Stdout
	}
	if stage.Stderr != nil {
		cmd.Stderr = stage.Stderr
	}
	if cmd.Stderr == nil {
		cmd.Stderr = io.Discard
	}

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(cmd.Stderr, "%s: %v\n", stage.Name, err)
		return InternalError
	}

	stage.PID = cmd.Process.Pid
	logger.Debugf("started %s (pid %d)", stage.Name, stage.PID)

	if stage.NoWait {
		// Backgrounded children are reaped asynchronously so they
		// never linger as zombies. Their status is discarded.
		go func() { _ = cmd.Wait() }()
		return 0
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.Debugf("%s exited with status %d", stage.Name, exitErr.ExitCode())
			return exitErr.ExitCode()
		}
		fmt.Fprintf(cmd.Stderr, "%s: wait: %v\n", stage.Name, err)
		return InternalError
	}

	return 0
}
