package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinner("working")
	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.Stop()

	// Stop cancels the internal context.
	if !s.Cancelled() {
		t.Error("spinner should report cancelled after Stop")
	}
}

func TestSpinnerImmediateStop(t *testing.T) {
	s := newSpinner("idle")
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Start()
		s.Stop()
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestSpinnerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "working")
	s.Start()

	cancel()
	time.Sleep(10 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should report cancelled after context cancellation")
	}
	s.Stop()
}
