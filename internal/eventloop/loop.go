package eventloop

import (
	"context"
	"errors"
	"sync"
)

// DefaultQueueSize is the task buffer used when New receives a non-positive size.
const DefaultQueueSize = 64

// ErrStopped is returned by Do when the loop is no longer running.
var ErrStopped = errors.New("event loop stopped")

// Loop runs posted tasks one at a time, in posting order.
type Loop struct {
	// queue holds tasks waiting to run.
	queue chan func()
	// done is closed once Run returns.
	done chan struct{}
	// stopOnce guards closing done.
	stopOnce sync.Once
}

// New creates a loop with the given task buffer size.
func New(queueSize int) *Loop {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	return &Loop{
		queue: make(chan func(), queueSize),
		done:  make(chan struct{}),
	}
}

// Run executes tasks until ctx is canceled. Tasks still queued at that
// point are dropped.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stopOnce.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return nil
		case task := <-l.queue:
			task()
		}
	}
}

// Post enqueues task and reports whether the loop accepted it.
// It is safe to call from any goroutine, including from a task.
func (l *Loop) Post(task func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.queue <- task:
		return true
	case <-l.done:
		return false
	}
}

// Do runs task on the loop and waits for it to finish.
// It must not be called from a task running on the same loop.
func (l *Loop) Do(ctx context.Context, task func()) error {
	finished := make(chan struct{})

	if !l.Post(func() {
		defer close(finished)

		task()
	}) {
		return ErrStopped
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the loop has stopped.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
