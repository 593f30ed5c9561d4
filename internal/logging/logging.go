// Package logging sets up structured logging for a process that owns the
// terminal: records go to a JSON file, and warnings are also routed onto
// the action bus for display. Nothing is written to stdout or stderr.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Options configures Open.
type Options struct {
	File    string     // JSON log file; empty disables file logging
	Level   slog.Level // file level
	UILevel slog.Level // minimum level forwarded to the bus
}

// Loggers bundles the process loggers.
type Loggers struct {
	// File writes only to the log file.
	File *slog.Logger
	// Logger writes to the file and forwards to the bus through Actions.
	Logger *slog.Logger
	// Actions is the bus-facing handler; call SetSink once the bus exists.
	Actions *ActionHandler

	closer io.Closer
}

// Open creates the log file (and its directory) and the loggers.
func Open(opts Options) (*Loggers, error) {
	var file slog.Handler = slog.DiscardHandler
	var closer io.Closer
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = slog.NewJSONHandler(f, &slog.HandlerOptions{Level: opts.Level})
		closer = f
	}
	actions := NewActionHandler(opts.UILevel)
	return &Loggers{
		File:    slog.New(file),
		Logger:  slog.New(Fanout{file, actions}),
		Actions: actions,
		closer:  closer,
	}, nil
}

// Close detaches the bus and closes the log file.
func (l *Loggers) Close() error {
	l.Actions.SetSink(nil)
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Discard returns loggers that drop everything. Used by tests.
func Discard() *Loggers {
	actions := NewActionHandler(slog.LevelWarn)
	return &Loggers{
		File:    slog.New(slog.DiscardHandler),
		Logger:  slog.New(Fanout{slog.DiscardHandler, actions}),
		Actions: actions,
	}
}

// Fanout sends each record to every enabled handler.
type Fanout []slog.Handler

func (handlers Fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (handlers Fanout) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range handlers {
		if h.Enabled(ctx, record.Level) {
			if err := h.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (handlers Fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make(Fanout, len(handlers))
	for i, h := range handlers {
		derived[i] = h.WithAttrs(attrs)
	}
	return derived
}

func (handlers Fanout) WithGroup(name string) slog.Handler {
	derived := make(Fanout, len(handlers))
	for i, h := range handlers {
		derived[i] = h.WithGroup(name)
	}
	return derived
}
