package event

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStream_SendAndReceive(t *testing.T) {
	s := NewStream(0)
	require.NoError(t, sendOK(t, s, ExecutorEvent{Kind: ExecutorPrompting}))

	select {
	case e := <-s.Events():
		ev, ok := e.(ExecutorEvent)
		require.True(t, ok)
		require.Equal(t, ExecutorPrompting, ev.Kind)
	case <-time.After(time.Second):
		t.Fatal("expected an event")
	}
}

func TestStream_SendSoftStopsOnCanceledContext(t *testing.T) {
	s := NewStream(1)
	// NewStream raises the capacity to DefaultStreamCapacity; fill it so
	// the next Send has no room and would block.
	for i := 0; i < DefaultStreamCapacity; i++ {
		require.True(t, s.Send(context.Background(), ExecutorEvent{Kind: ExecutorPrompting}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok := s.Send(ctx, ExecutorEvent{Kind: ExecutorAssistantText})
	require.False(t, ok, "Send on an already-canceled context must soft-stop, not block")
}

func TestStream_CloseUnblocksPendingSend(t *testing.T) {
	s := NewStream(1)
	// Fill the buffer (raised to DefaultStreamCapacity) so the Send below
	// is actually pending when Close runs.
	for i := 0; i < DefaultStreamCapacity; i++ {
		require.True(t, s.Send(context.Background(), ExecutorEvent{Kind: ExecutorPrompting}))
	}

	done := make(chan bool, 1)
	go func() {
		done <- s.Send(context.Background(), ExecutorEvent{Kind: ExecutorAssistantText})
	}()

	s.Close()

	select {
	case ok := <-done:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Close should unblock a pending Send")
	}
}

func TestStream_MinimumCapacityEnforced(t *testing.T) {
	s := NewStream(1)
	require.Equal(t, DefaultStreamCapacity, cap(s.ch))
}

func sendOK(t *testing.T, s *Stream, e any) error {
	t.Helper()
	if !s.Send(context.Background(), e) {
		t.Fatal("expected Send to succeed")
	}
	return nil
}
