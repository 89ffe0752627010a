package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/flumeio/flume/internal/queue"
)

// Result summarizes one pipeline run.
type Result struct {
	RunID    string
	Produced uint64
	Consumed uint64
	Elapsed  time.Duration
	Queue    queue.Stats
}

// Runner owns one pipeline run: N producers and M consumers sharing a
// single queue.
type Runner[T any] struct {
	queue     *queue.Queue[T]
	producers []*Producer[T]
	consumers []*Consumer[T]
}

// NewRunner wires producers and consumers to q. All tasks must have
// been constructed over the same queue.
func NewRunner[T any](q *queue.Queue[T], producers []*Producer[T], consumers []*Consumer[T]) *Runner[T] {
	return &Runner[T]{
		queue:     q,
		producers: producers,
		consumers: consumers,
	}
}

// Run executes the pipeline to completion and returns its Result. The
// ordering is load-bearing: consumers start first so a full queue never
// deadlocks the producers, producers are joined before shutdown so no
// pending put is rejected, and consumers are joined after shutdown so
// every buffered item is drained.
//
// Cancelling ctx stops all tasks cooperatively and shuts the queue
// down; items still buffered at that point are discarded with the run.
func (r *Runner[T]) Run(ctx context.Context) Result {
	start := time.Now()

	for _, c := range r.consumers {
		c.Start()
	}
	for _, p := range r.producers {
		p.Start()
	}

	watchDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			for _, p := range r.producers {
				p.Stop()
			}
			for _, c := range r.consumers {
				c.Stop()
			}
			r.queue.Shutdown()
		case <-watchDone:
		}
	}()

	for _, p := range r.producers {
		p.Wait()
	}
	r.queue.Shutdown()
	for _, c := range r.consumers {
		c.Wait()
	}
	close(watchDone)

	res := Result{
		RunID:   uuid.NewString(),
		Elapsed: time.Since(start),
		Queue:   r.queue.Stats(),
	}
	for _, p := range r.producers {
		res.Produced += p.Produced()
	}
	for _, c := range r.consumers {
		res.Consumed += c.Consumed()
	}
	return res
}
