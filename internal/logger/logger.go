// Package logger builds the charmbracelet/log loggers shared by the server,
// the catalog store and the CLI.
package logger

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// NewWithConfig creates a logger with custom options.
func NewWithConfig(w io.Writer, prefix string, level log.Level, caller bool, showTimestamp bool, formatter log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       formatter,
	})
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLevel maps a textual level to a log.Level, falling back to info.
func ParseLevel(value string) log.Level {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return log.InfoLevel
	}
	level, err := log.ParseLevel(value)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// ParseFormatter maps "json" and "logfmt" to their formatters; anything else
// yields the text formatter.
func ParseFormatter(value string) log.Formatter {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
