package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"neviraller/internal/action"
	"neviraller/internal/bus"
)

type sinkRef struct {
	sink bus.Sink
}

// ActionHandler is a slog.Handler that turns records into LogMessage
// actions on the bus, so background warnings show up in the status pane
// instead of being written over the alternate screen.
//
// Records arriving before SetSink, or after the bus is closed, are dropped.
// Handlers derived with WithAttrs/WithGroup share the sink pointer.
type ActionHandler struct {
	level  slog.Level
	sink   *atomic.Pointer[sinkRef]
	attrs  []slog.Attr
	groups []string
}

// NewActionHandler creates a handler for records at or above level.
func NewActionHandler(level slog.Level) *ActionHandler {
	return &ActionHandler{
		level: level,
		sink:  &atomic.Pointer[sinkRef]{},
	}
}

// SetSink sets the destination. Safe to call from any goroutine.
func (h *ActionHandler) SetSink(s bus.Sink) {
	if s == nil {
		h.sink.Store(nil)
		return
	}
	h.sink.Store(&sinkRef{sink: s})
}

func (h *ActionHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats "LEVEL message (key=value, ...)" and sends it.
func (h *ActionHandler) Handle(_ context.Context, record slog.Record) error {
	ref := h.sink.Load()
	if ref == nil {
		return nil
	}

	var parts []string
	for _, a := range h.attrs {
		parts = append(parts, fmt.Sprintf("%s=%s", a.Key, a.Value))
	}
	record.Attrs(func(a slog.Attr) bool {
		parts = append(parts, fmt.Sprintf("%s=%s", h.qualify(a.Key), a.Value))
		return true
	})

	summary := record.Level.String() + " " + record.Message
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, ", ") + ")"
	}
	// A closed bus means the loop is shutting down; the file handler
	// still has the record.
	_ = ref.sink.Send(action.Log(summary))
	return nil
}

// WithAttrs qualifies attrs with the current group path up front, so later
// groups do not rename them.
func (h *ActionHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := clone(h.attrs)
	for _, a := range attrs {
		merged = append(merged, slog.Attr{Key: h.qualify(a.Key), Value: a.Value})
	}
	return &ActionHandler{
		level:  h.level,
		sink:   h.sink,
		attrs:  merged,
		groups: clone(h.groups),
	}
}

func (h *ActionHandler) qualify(key string) string {
	if len(h.groups) == 0 {
		return key
	}
	return strings.Join(h.groups, ".") + "." + key
}

func (h *ActionHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ActionHandler{
		level:  h.level,
		sink:   h.sink,
		attrs:  clone(h.attrs),
		groups: append(clone(h.groups), name),
	}
}

func clone[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
