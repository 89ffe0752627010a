package pipeline

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/flumeio/flume/internal/queue"
)

// DefaultPollTimeout bounds each Get so the consumer can re-check its
// stop signal with no traffic. A liveness knob, not a correctness one:
// small enough to notice shutdown promptly, large enough to avoid
// busy-waiting.
const DefaultPollTimeout = 100 * time.Millisecond

// Consumer reads items from a shared queue and appends them to a Sink.
// It stops on its own stop signal, or once the queue is shut down and
// drained. Shutdown with items still buffered never terminates a
// consumer; only shutdown and empty together do.
type Consumer[T any] struct {
	queue *queue.Queue[T]
	sink  Sink[T]

	name      string
	poll      time.Duration
	delay     time.Duration
	onConsume func(T)

	consumed atomic.Uint64
	running  atomic.Bool
	stopped  atomic.Bool

	startOnce sync.Once
	done      chan struct{}
}

// ConsumerOption configures a Consumer.
type ConsumerOption[T any] func(*Consumer[T])

// WithConsumerName sets the task name used by callers for reporting.
func WithConsumerName[T any](name string) ConsumerOption[T] {
	return func(c *Consumer[T]) { c.name = name }
}

// WithPollTimeout overrides DefaultPollTimeout.
func WithPollTimeout[T any](d time.Duration) ConsumerOption[T] {
	return func(c *Consumer[T]) { c.poll = d }
}

// WithConsumeDelay sleeps for d after each item. A throughput throttle
// for demos and tests, not a correctness mechanism.
func WithConsumeDelay[T any](d time.Duration) ConsumerOption[T] {
	return func(c *Consumer[T]) { c.delay = d }
}

// WithOnConsume installs a callback invoked after each consumed item.
func WithOnConsume[T any](fn func(T)) ConsumerOption[T] {
	return func(c *Consumer[T]) { c.onConsume = fn }
}

// NewConsumer creates a consumer over q writing to sink. Call Start to
// run it.
func NewConsumer[T any](q *queue.Queue[T], sink Sink[T], opts ...ConsumerOption[T]) *Consumer[T] {
	c := &Consumer[T]{
		queue: q,
		sink:  sink,
		name:  "consumer",
		poll:  DefaultPollTimeout,
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start launches the consumer goroutine. Subsequent calls are no-ops.
func (c *Consumer[T]) Start() {
	c.startOnce.Do(func() {
		go c.run()
	})
}

// Stop signals the consumer to stop at the next loop iteration.
func (c *Consumer[T]) Stop() {
	c.stopped.Store(true)
}

// Wait blocks until the consumer goroutine has exited.
func (c *Consumer[T]) Wait() {
	<-c.done
}

// Name returns the task name.
func (c *Consumer[T]) Name() string { return c.name }

// Consumed returns the number of items appended to the sink so far.
func (c *Consumer[T]) Consumed() uint64 { return c.consumed.Load() }

// Running reports whether the consumer loop is active.
func (c *Consumer[T]) Running() bool { return c.running.Load() }

func (c *Consumer[T]) run() {
	c.running.Store(true)
	defer func() {
		c.running.Store(false)
		close(c.done)
	}()

	for {
		if c.stopped.Load() {
			return
		}
		item, ok := c.queue.GetTimeout(c.poll)
		if !ok {
			if c.queue.IsShutdown() && c.queue.IsEmpty() {
				return
			}
			// Plain timeout; keep polling.
			continue
		}

		c.sink.Append(item)
		c.consumed.Add(1)
		if c.onConsume != nil {
			c.onConsume(item)
		}
		if c.delay > 0 {
			time.Sleep(c.delay)
		}
	}
}
