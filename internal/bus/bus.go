// Package bus is the action queue between producers (input resolver,
// components, background tasks, the log handler) and the event loop.
package bus

import (
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"neviraller/internal/action"
)

// ErrClosed is returned by Send once the bus has been closed.
var ErrClosed = errors.New("action bus closed")

// Sink accepts actions. Components and collaborators only see this side.
type Sink interface {
	Send(action.Action) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(action.Action) error

func (f SinkFunc) Send(a action.Action) error { return f(a) }

// ReadyMsg is delivered by Wait when at least one action is queued.
type ReadyMsg struct{}

// Bus is an unbounded many-producer, single-consumer FIFO of actions.
// Send never blocks.
type Bus struct {
	mu     sync.Mutex
	queue  []action.Action
	closed bool
	notify chan struct{}
	done   chan struct{}
}

// New creates an empty, open bus.
func New() *Bus {
	return &Bus{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Send appends a to the queue.
func (b *Bus) Send(a action.Action) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.queue = append(b.queue, a)
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
	return nil
}

// Drain removes and returns everything queued so far, in send order.
// Actions sent after the snapshot stay queued for the next call.
func (b *Bus) Drain() []action.Action {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return nil
	}
	out := b.queue
	b.queue = nil
	return out
}

// Len returns the number of queued actions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Close rejects further sends and releases any pending Wait. Queued actions
// can still be drained. Closing twice is a no-op.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	close(b.done)
	return nil
}

// Closed reports whether Close was called.
func (b *Bus) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Wait returns a command that blocks until something is queued and then
// yields ReadyMsg. It yields nil once the bus is closed. The loop reissues
// it after every ReadyMsg.
func (b *Bus) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.notify:
			return ReadyMsg{}
		case <-b.done:
			return nil
		}
	}
}
