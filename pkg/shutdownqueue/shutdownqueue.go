// Package shutdownqueue collects cleanup tasks process-wide and drains
// them in LIFO order at the end of main:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//	defer shutdownqueue.Shutdown(ctx)
//
// Each task runs at most once. Panicking tasks are recovered, and all
// task errors come back joined into one.
package shutdownqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Task is a shutdown function. It should honor ctx and report an error
// when it cannot finish.
type Task func(ctx context.Context) error

type queue struct {
	mu     sync.Mutex
	tasks  []Task
	closed bool
}

var q = &queue{}

// Add registers a task to run on Shutdown, after everything added later.
// Safe from any goroutine. Nil tasks, and tasks added after shutdown has
// started, are ignored.
func Add(t Task) {
	if t == nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.tasks = append(q.tasks, t)
	}
}

// Shutdown drains the registered tasks, most recently added first. The
// first call does the work; later calls return nil immediately.
//
// When ctx expires mid-drain the remaining tasks are skipped and the
// context error is included in the joined result.
func Shutdown(ctx context.Context) error {
	q.mu.Lock()
	tasks := q.tasks
	q.tasks = nil
	q.closed = true
	q.mu.Unlock()

	var errs []error

	for i := len(tasks) - 1; i >= 0; i-- {
		if ctx.Err() != nil {
			errs = append(errs, fmt.Errorf("shutdown canceled: %w", ctx.Err()))
			break
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
