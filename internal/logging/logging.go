package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu     sync.Mutex
	out    io.Writer = os.Stdout
	warner           = log.New(os.Stderr, "WARN: ", log.LstdFlags)
)

// DebugEnabled returns true if debug mode is enabled via TRIPS_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("TRIPS_DEBUG") != ""
}

// Debugf prints a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, format, args...)
	}
}

// Debugln prints a debug message followed by a newline only if debug mode is enabled
func Debugln(args ...interface{}) {
	if DebugEnabled() {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(out, args...)
	}
}

// Warnf logs a failure that was handled locally and is not shown to the user.
// Warnings are always written, regardless of TRIPS_DEBUG.
func Warnf(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	warner.Printf(format, args...)
}

// SetOutput redirects debug and warning output. It returns a function that
// restores the previous writers.
func SetOutput(w io.Writer) func() {
	mu.Lock()
	defer mu.Unlock()

	prevOut, prevWarn := out, warner.Writer()
	out = w
	warner.SetOutput(w)

	return func() {
		mu.Lock()
		defer mu.Unlock()
		out = prevOut
		warner.SetOutput(prevWarn)
	}
}
