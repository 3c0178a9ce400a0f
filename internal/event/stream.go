// Package event holds the per-run Stream an Agent Executor and Coder
// Orchestrator publish progress on, plus an ambient pub/sub Bus for
// cross-cutting notifications (permission resolution, file edits)
// that outlive any one run.
package event

import "context"

// DefaultStreamCapacity is the minimum channel capacity spec §4.4/§9
// requires for a run's event stream, so a burst of tool-result events
// doesn't force the executor to block on a slow consumer mid-turn.
const DefaultStreamCapacity = 16

// Stream is a bounded, single-producer event channel for one
// executor or coder run. Send is back-pressured: once the buffer is
// full, Send blocks until the consumer drains it or ctx is canceled,
// at which point the run soft-stops rather than panicking on a closed
// channel.
type Stream struct {
	ch     chan any
	closed chan struct{}
}

// NewStream creates a Stream with at least DefaultStreamCapacity
// buffering.
func NewStream(capacity int) *Stream {
	if capacity < DefaultStreamCapacity {
		capacity = DefaultStreamCapacity
	}
	return &Stream{
		ch:     make(chan any, capacity),
		closed: make(chan struct{}),
	}
}

// Send publishes an event. It returns false if ctx was canceled
// before the event could be delivered, signaling the producer should
// soft-stop rather than treat this as a fatal error.
func (s *Stream) Send(ctx context.Context, e any) bool {
	// Checked up front, and not merely as a third select case: once
	// closed, a send must never race the buffer-has-room case below.
	select {
	case <-s.closed:
		return false
	default:
	}

	select {
	case s.ch <- e:
		return true
	case <-ctx.Done():
		return false
	case <-s.closed:
		return false
	}
}

// Events returns the receive-only channel a consumer ranges over.
func (s *Stream) Events() <-chan any {
	return s.ch
}

// Close signals no further events will be sent and unblocks any
// in-flight Send. Safe to call more than once. It deliberately does
// not close the underlying channel — a concurrent Send racing a
// channel close would panic — so consumers should stop reading on
// the run's own terminal event (Finished/Failed) rather than on
// channel closure.
func (s *Stream) Close() {
	select {
	case <-s.closed:
		// already closed
	default:
		close(s.closed)
	}
}
