// Package output provides terminal output utilities for the stencil CLI:
// logging, styles, tables, file trees, diffs and spinners.
package output

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// logger is the process-wide logger. It writes to stderr so that stdout
// stays reserved for command output (previews, tables, YAML).
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
	ReportCaller:    false,
})

// LogConfig controls logger setup.
type LogConfig struct {
	// Verbose enables debug level, caller reporting and forces timestamps on.
	Verbose bool

	// Timestamps controls whether timestamps are shown.
	// nil means the default (on).
	Timestamps *bool
}

// SetupLogging configures the logger from the given config.
func SetupLogging(cfg LogConfig) {
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}

	timestamps := true
	if cfg.Timestamps != nil {
		timestamps = *cfg.Timestamps
	}
	if cfg.Verbose {
		timestamps = true
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: timestamps,
		ReportCaller:    cfg.Verbose,
		TimeFormat:      "15:04:05",
	})
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// PackageLogger returns a logger scoped to a scaffold package.
// Lines are prefixed with "p:<id>".
func PackageLogger(id string) *log.Logger {
	return logger.WithPrefix(StyleDim.Render("p:") + id)
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...interface{}) {
	logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...interface{}) {
	logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...interface{}) {
	logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...interface{}) {
	logger.Error(msg, keyvals...)
}

// Details prints multi-line detail text to stderr without log decoration.
func Details(text string) {
	fmt.Fprintln(os.Stderr, text)
}
