// Package logging builds the structured logger shared by the commands and carries
// it through a context.
package logging

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

// New creates a logger writing to w at the named level ("debug", "info", "warn",
// "error"). Output is logfmt unless w is a terminal.
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := log.Options{
		Level:           lvl,
		ReportTimestamp: lvl == log.DebugLevel,
		Formatter:       log.LogfmtFormatter,
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		opts.Formatter = log.TextFormatter
	}

	return log.NewWithOptions(w, opts), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// WithContext returns a context carrying logger.
func WithContext(ctx context.Context, logger *log.Logger) context.Context {
	return log.WithContext(ctx, logger)
}

// FromContext returns the logger in ctx, or one that drops everything.
func FromContext(ctx context.Context) *log.Logger {
	if logger, ok := ctx.Value(log.ContextKey).(*log.Logger); ok {
		return logger
	}
	return Discard()
}
