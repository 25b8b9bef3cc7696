package rpc

import (
	"sync/atomic"
	"testing"
	"time"
)

func waitForCount(t *testing.T, counter *atomic.Int64, want int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if counter.Load() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("count = %d, want %d", counter.Load(), want)
}

func TestDebouncerCoalescesBurst(t *testing.T) {
	var count atomic.Int64
	d := NewDebouncer(30*time.Millisecond, func() { count.Add(1) })

	for i := 0; i < 10; i++ {
		d.Trigger()
		time.Sleep(2 * time.Millisecond)
	}
	waitForCount(t, &count, 1)

	// A later burst fires again.
	d.Trigger()
	waitForCount(t, &count, 2)
}

func TestDebouncerCancel(t *testing.T) {
	var count atomic.Int64
	d := NewDebouncer(30*time.Millisecond, func() { count.Add(1) })

	d.Trigger()
	d.Cancel()
	time.Sleep(100 * time.Millisecond)
	if got := count.Load(); got != 0 {
		t.Fatalf("callback ran %d times after Cancel", got)
	}

	// Cancel with nothing pending is a no-op.
	d.Cancel()
}
