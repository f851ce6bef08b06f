// Package queue provides a FIFO admission gate that limits the number of
// concurrently running tasks to a fixed capacity.
//
// Tasks are admitted in submission order. When all slots are taken, new
// submissions wait until a running task completes. The queue adds no error
// semantics of its own: a task's result and error are returned unmodified.
package queue

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/effective-security/webscraping-mcp/pkg/metricskey"
	"github.com/effective-security/xlog"
	"golang.org/x/sync/semaphore"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/webscraping-mcp", "queue")

// Task is a unit of work submitted to the Queue.
type Task[T any] func(ctx context.Context) (T, error)

// Queue limits the number of tasks executing at the same time.
// The capacity is fixed at construction.
type Queue struct {
	name     string
	capacity int64
	sem      *semaphore.Weighted

	running atomic.Int64
	waiting atomic.Int64
}

// New returns a queue that runs at most concurrency tasks at once.
// Values below 1 are treated as 1.
func New(name string, concurrency int) *Queue {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Queue{
		name:     name,
		capacity: int64(concurrency),
		sem:      semaphore.NewWeighted(int64(concurrency)),
	}
}

// Name returns the queue name used in logs and metrics.
func (q *Queue) Name() string {
	return q.name
}

// Capacity returns the maximum number of concurrently running tasks.
func (q *Queue) Capacity() int {
	return int(q.capacity)
}

// Running returns the number of tasks currently admitted.
func (q *Queue) Running() int {
	return int(q.running.Load())
}

// Waiting returns the number of tasks waiting for admission.
func (q *Queue) Waiting() int {
	return int(q.waiting.Load())
}

// Do submits fn and blocks until it has been admitted and completed.
// If ctx is cancelled while waiting for admission, fn is not run and
// ctx.Err() is returned.
func (q *Queue) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := Submit(ctx, q, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Submit runs task on q once a slot is available and returns its result.
func Submit[T any](ctx context.Context, q *Queue, task Task[T]) (T, error) {
	if err := q.acquire(ctx); err != nil {
		var zero T
		return zero, err
	}
	defer q.release()

	return task(ctx)
}

func (q *Queue) acquire(ctx context.Context) error {
	enqueued := time.Now()

	q.waiting.Add(1)
	err := q.sem.Acquire(ctx, 1)
	q.waiting.Add(-1)
	if err != nil {
		logger.ContextKV(ctx, xlog.DEBUG,
			"queue", q.name,
			"status", "admission_cancelled",
			"err", err.Error(),
		)
		return err
	}

	running := q.running.Add(1)
	metricskey.PerfQueueWait.MeasureSince(enqueued, q.name)

	logger.ContextKV(ctx, xlog.DEBUG,
		"queue", q.name,
		"status", "admitted",
		"running", running,
		"waiting", q.waiting.Load(),
	)
	return nil
}

func (q *Queue) release() {
	q.running.Add(-1)
	q.sem.Release(1)
}
