package shutdownqueue

import (
	"context"
	"errors"
	"testing"
	"time"
)

// resetForTest swaps in a fresh queue so tests don't share global state.
func resetForTest() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = nil
	q.closed = false
}

func TestShutdown_LIFOOrder(t *testing.T) {
	resetForTest()

	var order []int

	for i := 1; i <= 3; i++ {
		i := i
		Add(func(ctx context.Context) error {
			order = append(order, i)
			return nil
		})
	}

	err := Shutdown(context.Background())
	if err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	want := []int{3, 2, 1}
	if len(order) != len(want) {
		t.Fatalf("ran %d tasks, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order mismatch: want %v, got %v", want, order)
		}
	}
}

func TestShutdown_Idempotent(t *testing.T) {
	resetForTest()

	runs := 0
	Add(func(ctx context.Context) error {
		runs++
		return nil
	})

	_ = Shutdown(context.Background())
	_ = Shutdown(context.Background())

	if runs != 1 {
		t.Fatalf("task ran %d times, want 1", runs)
	}
}

func TestShutdown_AggregatesErrorsAndPanics(t *testing.T) {
	resetForTest()

	errBoom := errors.New("boom")

	Add(func(ctx context.Context) error { return nil })
	Add(func(ctx context.Context) error { return errBoom })
	Add(func(ctx context.Context) error { panic("task panic") })

	err := Shutdown(context.Background())
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if !errors.Is(err, errBoom) {
		t.Fatalf("aggregated error missing task error: %v", err)
	}
}

func TestShutdown_StopsOnContextCancel(t *testing.T) {
	resetForTest()

	ran := 0
	for range 3 {
		Add(func(ctx context.Context) error {
			ran++
			return nil
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	cancel() // already canceled; no task should run

	err := Shutdown(ctx)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if ran != 0 {
		t.Fatalf("expected no tasks after cancel, ran %d", ran)
	}
}
