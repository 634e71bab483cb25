// Package logger provides the verbose-aware stderr logger shared by the
// CLI and the session layer.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// VerboseChecker interface for checking verbose state
type VerboseChecker interface {
	IsVerbose() bool
}

// Logger writes component-tagged log lines with key=value fields.
type Logger struct {
	component      string
	verboseChecker VerboseChecker
	writer         io.Writer
}

// New creates a new logger instance
func New(component string, verboseChecker VerboseChecker) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: verboseChecker,
		writer:         os.Stderr,
	}
}

// NewWithCallback creates a new logger instance with a callback function
func NewWithCallback(component string, verboseCheck func() bool) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: &callbackChecker{callback: verboseCheck},
		writer:         os.Stderr,
	}
}

// WithComponent creates a logger with a specific component name
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: l.verboseChecker,
		writer:         l.writer,
	}
}

// SetWriter redirects output, used by tests.
func (l *Logger) SetWriter(w io.Writer) {
	l.writer = w
}

// callbackChecker implements VerboseChecker with a callback function
type callbackChecker struct {
	callback func() bool
}

func (c *callbackChecker) IsVerbose() bool {
	if c.callback == nil {
		return false
	}
	return c.callback()
}

// Debug logs debug messages (only when verbose=true)
func (l *Logger) Debug(msg string, kvs ...interface{}) {
	if l.verboseChecker != nil && l.verboseChecker.IsVerbose() {
		l.log("DEBUG", msg, kvs...)
	}
}

// Info logs informational messages (only when verbose=true)
func (l *Logger) Info(msg string, kvs ...interface{}) {
	if l.verboseChecker != nil && l.verboseChecker.IsVerbose() {
		l.log("INFO", msg, kvs...)
	}
}

// Warn logs warning messages (always shown)
func (l *Logger) Warn(msg string, kvs ...interface{}) {
	l.log("WARN", msg, kvs...)
}

// Error logs error messages (always shown)
func (l *Logger) Error(msg string, kvs ...interface{}) {
	l.log("ERROR", msg, kvs...)
}

// log formats and writes one line. kvs are alternating key/value pairs
// appended as key=value; a trailing unpaired element is logged as-is.
func (l *Logger) log(level, msg string, kvs ...interface{}) {
	timestamp := time.Now().Format("15:04:05.000")
	component := l.component
	if component == "" {
		component = "main"
	}

	var fields string
	if len(kvs) > 0 {
		parts := make([]string, 0, (len(kvs)+1)/2)
		for i := 0; i < len(kvs); i += 2 {
			if i+1 < len(kvs) {
				parts = append(parts, fmt.Sprintf("%v=%v", kvs[i], kvs[i+1]))
			} else {
				parts = append(parts, fmt.Sprintf("%v", kvs[i]))
			}
		}
		fields = fmt.Sprintf(" [%s]", strings.Join(parts, " "))
	}

	logLine := fmt.Sprintf("[%s] %s [%s] %s%s\n", timestamp, level, component, msg, fields)

	if _, err := fmt.Fprint(l.writer, logLine); err != nil {
		// Log write failed, but we can't do much about it
		// since this is the logger itself
		_ = err
	}
}
