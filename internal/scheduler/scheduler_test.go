package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestEveryRunsUntilStop(t *testing.T) {
	var runs atomic.Int32
	done := make(chan struct{})

	Every(time.Millisecond, time.Millisecond, func() bool {
		return runs.Add(1) >= 3
	}, func() {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop never stopped")
	}
	if got := runs.Load(); got != 3 {
		t.Errorf("task ran %d times, want 3", got)
	}
}

func TestEveryCleanupBeforeExitAllowsImmediateRestart(t *testing.T) {
	// Models the mailbox reconnect: the first loop stops, its cleanup
	// frees the slot, and a new loop claimed in that instant must run.
	var slot atomic.Bool
	slot.Store(true)

	restarted := make(chan struct{})
	firstStopped := make(chan struct{})

	Every(time.Millisecond, time.Millisecond, func() bool {
		return true // stop on the first cycle
	}, func() {
		slot.Store(false)
		// Reconnect path: the slot must be claimable right now.
		if !slot.CompareAndSwap(false, true) {
			t.Error("slot not claimable after cleanup")
		}
		Every(time.Millisecond, time.Millisecond, func() bool {
			close(restarted)
			return true
		}, func() { close(firstStopped) })
	})

	select {
	case <-restarted:
	case <-time.After(2 * time.Second):
		t.Fatal("replacement loop never ran")
	}
	select {
	case <-firstStopped:
	case <-time.After(2 * time.Second):
		t.Fatal("replacement loop never cleaned up")
	}
}

func TestEveryStopOnFirstRunSkipsTicker(t *testing.T) {
	var runs atomic.Int32
	done := make(chan struct{})

	Every(time.Millisecond, time.Hour, func() bool {
		runs.Add(1)
		return true
	}, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop never stopped")
	}
	if got := runs.Load(); got != 1 {
		t.Errorf("task ran %d times, want 1", got)
	}
}
