// Package trace is a small leveled tracer used throughout the decoder and
// interpreter to narrate load/parse/dispatch activity without getting in
// the way of the fatal-abort error path.
package trace

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level orders trace verbosity from most to least chatty.
type Level int

const (
	FINE Level = iota
	INFO
	WARNING
	SEVERE
)

func (l Level) String() string {
	switch l {
	case FINE:
		return "FINE"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case SEVERE:
		return "SEVERE"
	default:
		return "UNKNOWN"
	}
}

var (
	mu      sync.Mutex
	out     io.Writer = os.Stderr
	minimum Level     = INFO
)

// Init resets the tracer to its defaults (stderr, INFO). The CLI calls it
// at startup, mirroring the teacher's trace.Init() call.
func Init() {
	mu.Lock()
	defer mu.Unlock()
	out = os.Stderr
	minimum = INFO
}

// SetLevel changes the minimum level that is actually written out.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	minimum = l
}

// SetOutput redirects where trace lines are written, for example into a
// buffer to capture them.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

func emit(level Level, msg string) {
	mu.Lock()
	defer mu.Unlock()
	if level < minimum {
		return
	}
	fmt.Fprintf(out, "[%s] %s\n", level, msg)
}

// Log writes msg at the given level and always returns nil, matching the
// teacher's log.Log(msg, level) signature (its callers discard the error
// with "_ = log.Log(...)").
func Log(msg string, level Level) error {
	emit(level, msg)
	return nil
}

// Trace writes an INFO-level line, mirroring the teacher's trace.Trace.
func Trace(msg string) { emit(INFO, msg) }

// Warning writes a WARNING-level line.
func Warning(msg string) { emit(WARNING, msg) }

// Error writes a SEVERE-level line, mirroring the teacher's trace.Error.
func Error(msg string) { emit(SEVERE, msg) }
