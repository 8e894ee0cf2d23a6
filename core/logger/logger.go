// Package logger provides the shell's leveled, colored diagnostics.
// Errors are always printed; debug messages only when debug mode is
// enabled.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	debugMode bool
	out       io.Writer = os.Stderr

	errorPrefix = color.New(color.FgRed, color.Bold).Sprint("ERROR")
	debugPrefix = color.New(color.FgCyan, color.Bold).Sprint("DEBUG")
)

// SetDebug toggles debug output.
func SetDebug(on bool) {
	debugMode = on
}

// SetOutput redirects diagnostics, primarily for tests.
func SetOutput(w io.Writer) {
	out = w
}

// Errorf reports a user-visible error.
func Errorf(format string, args ...interface{}) {
	fmt.Fprintf(out, "%s: %s\n", errorPrefix, fmt.Sprintf(format, args...))
}

// Debugf reports internal state transitions when debug mode is on.
func Debugf(format string, args ...interface{}) {
	if !debugMode {
		return
	}
	fmt.Fprintf(out, "%s: %s\n", debugPrefix, fmt.Sprintf(format, args...))
}
