// Package shutdownqueue is a process-wide LIFO queue of cleanup tasks.
//
// Register tasks with Add as resources come up, then drain them at the
// end of main:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//	defer shutdownqueue.Shutdown(ctx)
//
// Tasks run once, newest first. Panics inside tasks are recovered and
// reported as errors; Shutdown is idempotent.
package shutdownqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Task is a shutdown function. It should honor ctx and return an error
// when it cannot finish.
type Task func(ctx context.Context) error

var q struct {
	mu     sync.Mutex
	tasks  []Task
	closed bool
}

// Add registers a task to run on Shutdown, in LIFO order. Nil tasks
// and tasks added after shutdown started are ignored.
func Add(t Task) {
	if t == nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.tasks = append(q.tasks, t)
}

// Shutdown drains the registered tasks newest first. Subsequent calls
// are no-ops. When ctx expires mid-drain the remaining tasks are
// skipped and the context error is included in the joined result.
func Shutdown(ctx context.Context) error {
	q.mu.Lock()

	if q.closed {
		q.mu.Unlock()

		return nil
	}

	q.closed = true
	tasks := q.tasks
	q.tasks = nil

	q.mu.Unlock()

	var errs []error

	for i := len(tasks) - 1; i >= 0; i-- {
		select {
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("shutdown canceled: %w", ctx.Err()))

			return errors.Join(errs...)
		default:
		}

		errs = append(errs, runTask(ctx, tasks[i]))
	}

	return errors.Join(errs...)
}

func runTask(ctx context.Context, t Task) (err error) {
	defer func() {
		r := recover()
		if r != nil {
			err = fmt.Errorf("panic in shutdown task: %v", r)
		}
	}()

	return t(ctx)
}
