// Package logging configures the zerolog journal shared by all odsctl
// commands. Operational logging goes to stderr; human-facing tables and
// summaries stay on stdout.
package logging

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New builds the application logger. Every line carries the app name and a
// short random run id so the lines of one batch invocation can be
// correlated. verbose forces debug level regardless of the configured
// level.
func New(level string, verbose bool) zerolog.Logger {
	lvl := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(level); err == nil && level != "" {
		lvl = parsed
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(os.Stderr),
	}
	runID := uuid.NewString()[:8]
	return zerolog.New(output).
		Level(lvl).
		With().
		Timestamp().
		Str("app", "odsctl").
		Str("run", runID).
		Logger()
}

// isTerminal reports whether the stream is an interactive terminal.
// Piped or redirected logs stay free of ANSI escapes.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Redact replaces a secret value for log output. Secret values never
// appear in any log line.
func Redact(secret string) string {
	if secret == "" {
		return "(none)"
	}
	return "[hidden]"
}
