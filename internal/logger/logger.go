// Package logger provides verbose logging for pdfchat.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to trace uploads, searches and model calls.
// Errors are always printed.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(false, "[DEBUG] "+format+"\n", args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	logf(false, "\n=== %s ===\n", name)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf(false, "[INFO] "+format+"\n", args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf(false, "[WARN] "+format+"\n", args...)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	logf(true, "[ERROR] "+format+"\n", args...)
}

// logf writes under the lock so concurrent callers never interleave.
func logf(always bool, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if always || verbose {
		fmt.Fprintf(output, format, args...)
	}
}
