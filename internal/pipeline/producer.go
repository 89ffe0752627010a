package pipeline

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/flumeio/flume/internal/queue"
)

// Producer reads items from a Source and puts them into a shared queue,
// blocking when the queue is full. It stops on source exhaustion, on
// its own stop signal, or when the queue rejects a put after shutdown.
type Producer[T any] struct {
	queue  *queue.Queue[T]
	source Source[T]

	name      string
	delay     time.Duration
	limiter   *rate.Limiter
	onProduce func(T)

	produced atomic.Uint64
	running  atomic.Bool
	stopped  atomic.Bool

	startOnce sync.Once
	done      chan struct{}
}

// ProducerOption configures a Producer.
type ProducerOption[T any] func(*Producer[T])

// WithProducerName sets the task name used by callers for reporting.
func WithProducerName[T any](name string) ProducerOption[T] {
	return func(p *Producer[T]) { p.name = name }
}

// WithProduceDelay sleeps for d after each item. A throughput throttle
// for demos and tests, not a correctness mechanism.
func WithProduceDelay[T any](d time.Duration) ProducerOption[T] {
	return func(p *Producer[T]) { p.delay = d }
}

// WithProducerRate caps production at perSecond items per second.
func WithProducerRate[T any](perSecond float64) ProducerOption[T] {
	return func(p *Producer[T]) {
		p.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithOnProduce installs a callback invoked after each successful put.
func WithOnProduce[T any](fn func(T)) ProducerOption[T] {
	return func(p *Producer[T]) { p.onProduce = fn }
}

// NewProducer creates a producer over q and src. Call Start to run it.
func NewProducer[T any](q *queue.Queue[T], src Source[T], opts ...ProducerOption[T]) *Producer[T] {
	p := &Producer[T]{
		queue:  q,
		source: src,
		name:   "producer",
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the producer goroutine. Subsequent calls are no-ops.
func (p *Producer[T]) Start() {
	p.startOnce.Do(func() {
		go p.run()
	})
}

// Stop signals the producer to stop. The signal is observed once per
// loop iteration; the item in flight is finished first.
func (p *Producer[T]) Stop() {
	p.stopped.Store(true)
}

// Wait blocks until the producer goroutine has exited.
func (p *Producer[T]) Wait() {
	<-p.done
}

// Name returns the task name.
func (p *Producer[T]) Name() string { return p.name }

// Produced returns the number of items successfully put so far.
func (p *Producer[T]) Produced() uint64 { return p.produced.Load() }

// Running reports whether the producer loop is active.
func (p *Producer[T]) Running() bool { return p.running.Load() }

func (p *Producer[T]) run() {
	p.running.Store(true)
	defer func() {
		p.running.Store(false)
		close(p.done)
	}()

	for {
		if p.stopped.Load() {
			return
		}
		item, ok := p.source.Next()
		if !ok {
			return
		}
		if !p.queue.Put(item) {
			// Queue shut down while we were blocked; the item is
			// dropped and no further source items are consumed.
			return
		}
		p.produced.Add(1)
		if p.onProduce != nil {
			p.onProduce(item)
		}
		p.throttle()
	}
}

func (p *Producer[T]) throttle() {
	if p.limiter != nil {
		if d := p.limiter.Reserve().Delay(); d > 0 {
			time.Sleep(d)
		}
	}
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
}
