// Package logger provides verbose logging for the Plaide CLI.
// When verbose mode is enabled via the --verbose flag, pipeline stages
// (reformulation, filter extraction, the fallback ladder, citation
// validation) are printed to stderr so users can follow a turn.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// SetOutput redirects verbose logs. Defaults to os.Stderr.
// Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func printf(prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

// Debug traces pipeline internals such as ladder steps and extracted
// filters.
func Debug(format string, args ...any) { printf("[DEBUG] ", format, args...) }

// Info reports stage outcomes.
func Info(format string, args ...any) { printf("[INFO] ", format, args...) }

// Warn reports recoverable failures, like a reformulation falling
// back to the original question.
func Warn(format string, args ...any) { printf("[WARN] ", format, args...) }

// Section prints a header separating pipeline stages.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, "\n=== %s ===\n", name)
}
