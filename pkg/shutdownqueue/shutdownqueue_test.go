package shutdownqueue

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// resetQueue clears the global queue between tests.
func resetQueue(t *testing.T) {
	t.Helper()

	q.mu.Lock()
	q.tasks = nil
	q.closed = false
	q.mu.Unlock()

	t.Cleanup(func() {
		q.mu.Lock()
		q.tasks = nil
		q.closed = false
		q.mu.Unlock()
	})
}

//nolint:paralleltest
func TestAddNilIsNoop(t *testing.T) {
	resetQueue(t)

	Add(nil)

	err := Shutdown(t.Context())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

//nolint:paralleltest
func TestShutdownRunsLIFO(t *testing.T) {
	resetQueue(t)

	var order []string

	for _, name := range []string{"first", "second", "third"} {
		Add(func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	err := Shutdown(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := strings.Join(order, ",")
	if got != "third,second,first" {
		t.Fatalf("wrong drain order: %s", got)
	}
}

//nolint:paralleltest
func TestShutdownIdempotent(t *testing.T) {
	resetQueue(t)

	runs := 0

	Add(func(context.Context) error {
		runs++
		return nil
	})

	_ = Shutdown(t.Context())
	_ = Shutdown(t.Context())

	if runs != 1 {
		t.Fatalf("task ran %d times, want 1", runs)
	}
}

//nolint:paralleltest
func TestShutdownCollectsErrorsAndPanics(t *testing.T) {
	resetQueue(t)

	sentinel := errors.New("close failed")

	Add(func(context.Context) error { return sentinel })
	Add(func(context.Context) error { panic("boom") })

	err := Shutdown(t.Context())
	if !errors.Is(err, sentinel) {
		t.Fatalf("joined error should include sentinel, got %v", err)
	}

	if !strings.Contains(err.Error(), "panic in shutdown task") {
		t.Fatalf("joined error should include panic, got %v", err)
	}
}

//nolint:paralleltest
func TestShutdownStopsOnCanceledContext(t *testing.T) {
	resetQueue(t)

	ran := false

	Add(func(context.Context) error {
		ran = true
		return nil
	})
	Add(func(ctx context.Context) error {
		time.Sleep(10 * time.Millisecond)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Shutdown(ctx)
	if err == nil || !strings.Contains(err.Error(), "shutdown canceled") {
		t.Fatalf("expected cancellation error, got %v", err)
	}

	if ran {
		t.Fatal("tasks after cancellation should not run")
	}
}

//nolint:paralleltest
func TestAddAfterShutdownIgnored(t *testing.T) {
	resetQueue(t)

	_ = Shutdown(t.Context())

	ran := false

	Add(func(context.Context) error {
		ran = true
		return nil
	})

	_ = Shutdown(t.Context())

	if ran {
		t.Fatal("task added after shutdown should not run")
	}
}
