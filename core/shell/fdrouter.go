package shell

import (
	"io"

	"github.com/conchsh/conch/core/chain"
)

// routeIO points the session's standard streams at the stage's
// descriptors and returns a restore func. Builtins run inside the
// shell's own process, so whoever applies the router must run the
// restore on every exit path or the shell is left with swapped
// streams.
func (s *Session) routeIO(sc *chain.SimpleCommand) (restore func()) {
	savedIn, savedOut, savedErr := s.stdin, s.stdout, s.stderr

	if sc.Stdin != nil {
		s.stdin = sc.Stdin
	}
	if sc.Stdout != nil {
		s.stdout = sc.Stdout
	}
	if sc.Stderr != nil {
		s.stderr = sc.Stderr
	}

	return func() {
		s.stdin, s.stdout, s.stderr = savedIn, savedOut, savedErr
	}
}

// Stdin returns the session's effective input stream.
func (s *Session) Stdin() io.Reader { return s.stdin }

// Stdout returns the session's effective output stream.
func (s *Session) Stdout() io.Writer { return s.stdout }

// Stderr returns the session's effective error stream.
func (s *Session) Stderr() io.Writer { return s.stderr }
