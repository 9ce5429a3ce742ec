// ABOUTME: Structured logger construction on top of charmbracelet/log.
// ABOUTME: Everything logs to stderr so stdout stays free for command output and MCP traffic.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "warn"

// New returns a logger writing to w at the named level ("debug", "info", "warn", "error").
// Set format to "json" for machine-readable output.
func New(w io.Writer, level, format string) (*log.Logger, error) {
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	opts := log.Options{
		Level:           lvl,
		Prefix:          "frame",
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	}
	if strings.EqualFold(format, "json") {
		opts.Formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, opts), nil
}

// Stderr is New writing to os.Stderr, falling back to the default level on a bad name.
func Stderr(level, format string) *log.Logger {
	l, err := New(os.Stderr, level, format)
	if err != nil {
		l, _ = New(os.Stderr, DefaultLevel, format)
		l.Warn("unknown log level, using default", "level", level, "default", DefaultLevel)
	}
	return l
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
