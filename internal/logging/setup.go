// Package logging builds the run logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Options configure the run logger.
type Options struct {
	Level string
	// Console defaults to os.Stderr.
	Console io.Writer
	// History receives a copy of every line when set.
	History io.Writer
}

// New returns a logger writing to the console and, when configured, the
// run's history log.
func New(opts Options) *log.Logger {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	w := console
	if opts.History != nil {
		w = io.MultiWriter(console, opts.History)
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(opts.Level),
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	return logger
}

// ParseLevel maps a level name to a log level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
