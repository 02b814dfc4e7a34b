// Package hooks lets widgets ask the bar to re-update them. A Sender is the
// capability a widget holds for its own slot; TimedHooks coalesces many
// widgets' periodic refresh requests into a single background goroutine.
package hooks

import (
	"context"
	"errors"
)

// Index identifies a widget by its position in the bar's widget list. It is
// stable for the widget's lifetime.
type Index int

// ErrClosed is returned when the update channel is no longer being read.
var ErrClosed = errors.New("hooks: update channel closed")

// Sender requests re-updates for one widget slot. It is a small value type;
// copies may be handed to any number of goroutines.
type Sender struct {
	ch chan<- Index
	id Index
}

// NewSender returns a sender that pushes id into ch.
func NewSender(ch chan<- Index, id Index) Sender {
	return Sender{ch: ch, id: id}
}

// Index returns the widget slot this sender targets.
func (s Sender) Index() Index {
	return s.id
}

// Send blocks until the update is queued or ctx is done.
func (s Sender) Send(ctx context.Context) error {
	if s.ch == nil {
		return ErrClosed
	}
	select {
	case s.ch <- s.id:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySend queues an update without blocking. It reports false when the
// channel is full, in which case an update for some widget is already
// pending and the bar will relayout soon anyway.
func (s Sender) TrySend() bool {
	if s.ch == nil {
		return false
	}
	select {
	case s.ch <- s.id:
		return true
	default:
		return false
	}
}
