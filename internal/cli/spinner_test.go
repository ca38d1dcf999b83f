package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinner_StartStop(t *testing.T) {
	s := newSpinner("Computing layout...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	// Stop cancels the internal context, so Cancelled reports true for
	// explicit stops too.
	if !s.Cancelled() {
		t.Error("Cancelled() = false after Stop()")
	}
}

func TestSpinner_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Rendering lineage...")
	s.Start()
	cancel()

	time.Sleep(100 * time.Millisecond)
	if !s.Cancelled() {
		t.Error("Cancelled() = false after parent context cancel")
	}
}

func TestSpinner_ContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Rendering lineage...")
	s.Start()

	time.Sleep(100 * time.Millisecond)
	if !s.Cancelled() {
		t.Error("Cancelled() = false after context timeout")
	}
}

func TestSpinner_StopIsIdempotent(t *testing.T) {
	s := newSpinner("Computing layout...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinner_StopWithOutcome(t *testing.T) {
	s := newSpinner("Computing layout...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("Layout complete")

	s = newSpinner("Rendering lineage...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithError("Render failed")
}
