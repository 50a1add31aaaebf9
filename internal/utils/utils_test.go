package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fakeAfter(t *testing.T, fire bool) *[]time.Duration {
	t.Helper()

	var requested []time.Duration
	original := after
	after = func(d time.Duration) (<-chan time.Time, func() bool) {
		requested = append(requested, d)
		ch := make(chan time.Time, 1)
		if fire {
			ch <- time.Now()
		}
		return ch, func() bool { return true }
	}
	t.Cleanup(func() { after = original })

	return &requested
}

func TestWaitFor(t *testing.T) {
	requested := fakeAfter(t, true)

	if err := WaitFor(context.Background(), 0); err != nil {
		t.Fatalf("expected nil error for zero duration, got %v", err)
	}
	if len(*requested) != 0 {
		t.Fatalf("expected no timer for zero duration")
	}

	if err := WaitFor(context.Background(), time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*requested) != 1 || (*requested)[0] != time.Second {
		t.Fatalf("expected a 1s timer, got %v", *requested)
	}
}

func TestWaitForCancelled(t *testing.T) {
	fakeAfter(t, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := WaitFor(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := WaitFor(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled for zero duration, got %v", err)
	}
}

func TestWaitForRealTimer(t *testing.T) {
	start := time.Now()
	if err := WaitFor(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Fatalf("returned before the timer fired")
	}
}
