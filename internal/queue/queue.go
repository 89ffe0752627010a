package queue

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrInvalidCapacity is returned by New when capacity is less than 1.
var ErrInvalidCapacity = errors.New("queue: capacity must be at least 1")

// Forever makes PutTimeout and GetTimeout wait indefinitely.
const Forever time.Duration = -1

// Queue is a bounded blocking FIFO queue safe for any number of
// concurrent producers and consumers.
type Queue[T any] struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond

	buf      []T
	head     int
	count    int
	capacity int

	down bool // latched by Shutdown, never cleared

	added       uint64
	removed     uint64
	blockedPuts uint64
	blockedGets uint64
}

// New creates a queue holding at most capacity items.
func New[T any](capacity int) (*Queue[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	q := &Queue[T]{
		buf:      make([]T, capacity),
		capacity: capacity,
	}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q, nil
}

// MustNew is like New but panics on invalid capacity. Intended for
// wiring code where the capacity is a checked constant.
func MustNew[T any](capacity int) *Queue[T] {
	q, err := New[T](capacity)
	if err != nil {
		panic(err)
	}
	return q
}

// Scoped creates a queue, passes it to fn, and guarantees Shutdown on
// every exit path, including a panic inside fn.
func Scoped[T any](capacity int, fn func(*Queue[T]) error) error {
	q, err := New[T](capacity)
	if err != nil {
		return err
	}
	defer q.Shutdown()
	return fn(q)
}

// Put appends item, blocking while the queue is full. It returns false
// if the queue is shut down before space becomes available.
func (q *Queue[T]) Put(item T) bool {
	return q.PutTimeout(item, Forever)
}

// PutTimeout is Put with a bounded wait. A zero timeout tries once
// without blocking; a negative timeout waits indefinitely. It returns
// false on timeout or shutdown.
func (q *Queue[T]) PutTimeout(item T, timeout time.Duration) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	var deadline time.Time
	timed := timeout >= 0
	if timed {
		deadline = time.Now().Add(timeout)
	}

	blocked := false
	for q.count == q.capacity && !q.down {
		if !blocked {
			q.blockedPuts++
			blocked = true
		}
		if timed {
			if !q.waitDeadline(q.notFull, deadline) {
				return false
			}
		} else {
			q.notFull.Wait()
		}
	}
	if q.down {
		return false
	}

	q.buf[(q.head+q.count)%q.capacity] = item
	q.count++
	q.added++
	q.notEmpty.Signal()
	return true
}

// Get removes and returns the oldest item, blocking while the queue is
// empty. It returns (zero, false) once the queue is shut down and
// drained; buffered items are still delivered after shutdown.
func (q *Queue[T]) Get() (T, bool) {
	return q.GetTimeout(Forever)
}

// GetTimeout is Get with a bounded wait. A zero timeout tries once
// without blocking; a negative timeout waits indefinitely.
func (q *Queue[T]) GetTimeout(timeout time.Duration) (T, bool) {
	var zero T

	q.mu.Lock()
	defer q.mu.Unlock()

	var deadline time.Time
	timed := timeout >= 0
	if timed {
		deadline = time.Now().Add(timeout)
	}

	blocked := false
	for q.count == 0 && !q.down {
		if !blocked {
			q.blockedGets++
			blocked = true
		}
		if timed {
			if !q.waitDeadline(q.notEmpty, deadline) {
				return zero, false
			}
		} else {
			q.notEmpty.Wait()
		}
	}
	if q.down && q.count == 0 {
		return zero, false
	}

	item := q.buf[q.head]
	q.buf[q.head] = zero
	q.head = (q.head + 1) % q.capacity
	q.count--
	q.removed++
	q.notFull.Signal()
	return item, true
}

// waitDeadline waits on cond until it is signaled or the deadline
// passes. It must be called with q.mu held and returns false once the
// deadline has passed. sync.Cond has no timed wait, so a timer
// broadcasts at the deadline and the caller's predicate loop re-checks.
func (q *Queue[T]) waitDeadline(cond *sync.Cond, deadline time.Time) bool {
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return false
	}
	t := time.AfterFunc(remaining, func() {
		// Taking the lock orders the broadcast after the waiter's
		// cond.Wait, so the wakeup cannot be lost.
		q.mu.Lock()
		cond.Broadcast()
		q.mu.Unlock()
	})
	cond.Wait()
	t.Stop()
	if !time.Now().Before(deadline) {
		// This waiter may have consumed a single-wake Signal meant
		// for the slot it is now abandoning. Hand the wakeup on.
		cond.Signal()
		return false
	}
	return true
}

// Size returns the current number of buffered items.
func (q *Queue[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Capacity returns the fixed capacity set at construction.
func (q *Queue[T]) Capacity() int {
	return q.capacity
}

// IsEmpty reports whether the queue holds no items.
func (q *Queue[T]) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count == 0
}

// IsFull reports whether the queue is at capacity.
func (q *Queue[T]) IsFull() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count == q.capacity
}

// Shutdown latches the shutdown flag and wakes every blocked producer
// and consumer. Buffered items remain available to Get. Idempotent.
func (q *Queue[T]) Shutdown() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.down {
		return
	}
	q.down = true
	q.notFull.Broadcast()
	q.notEmpty.Broadcast()
}

// IsShutdown reports whether Shutdown has been called.
func (q *Queue[T]) IsShutdown() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.down
}

// Clear atomically removes all buffered items and wakes blocked
// producers. Shutdown state is unaffected.
func (q *Queue[T]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	var zero T
	for i := 0; i < q.count; i++ {
		q.buf[(q.head+i)%q.capacity] = zero
	}
	q.head = 0
	q.count = 0
	q.notFull.Broadcast()
}
