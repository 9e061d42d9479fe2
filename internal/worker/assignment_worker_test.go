package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) Refresh(ctx context.Context) error {
	r.calls.Add(1)
	return r.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAssignmentWorker_PollsUntilCancelled(t *testing.T) {
	r := &countingRefresher{err: errors.New("feed down")}
	w := NewAssignmentWorker(r, 10*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for r.calls.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("only %d refreshes", r.calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestAssignmentWorker_DisabledReturnsImmediately(t *testing.T) {
	r := &countingRefresher{}
	done := make(chan struct{})
	go func() {
		NewAssignmentWorker(r, 0, discardLogger()).Start(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled worker kept running")
	}
	if r.calls.Load() != 0 {
		t.Errorf("calls = %d, want 0", r.calls.Load())
	}
}
