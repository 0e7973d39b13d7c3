package bot

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSequencerOrdersWithinKey(t *testing.T) {
	t.Parallel()

	s := newSequencer()

	const jobs = 200

	var mu sync.Mutex
	var order []int

	for i := 0; i < jobs; i++ {
		i := i

		s.submit(1, func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}

	s.wait()

	if len(order) != jobs {
		t.Fatalf("ran %d jobs, want %d", len(order), jobs)
	}

	for i, got := range order {
		if got != i {
			t.Fatalf("job %d ran at position %d", got, i)
		}
	}
}

func TestSequencerKeysRunIndependently(t *testing.T) {
	t.Parallel()

	s := newSequencer()

	release := make(chan struct{})
	var second atomic.Bool

	// Key 1 is blocked until released; key 2 must still run.
	s.submit(1, func() { <-release })
	s.submit(2, func() { second.Store(true) })

	deadline := time.After(2 * time.Second)
	for !second.Load() {
		select {
		case <-deadline:
			t.Fatal("key 2 never ran while key 1 was blocked")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	close(release)
	s.wait()
}

func TestSequencerReusesIdleKey(t *testing.T) {
	t.Parallel()

	s := newSequencer()

	var runs atomic.Int64

	s.submit(1, func() { runs.Add(1) })
	s.wait()

	// The drain goroutine for key 1 has exited; a new submit must
	// start a fresh one.
	s.submit(1, func() { runs.Add(1) })
	s.wait()

	if runs.Load() != 2 {
		t.Fatalf("ran %d jobs, want 2", runs.Load())
	}
}
