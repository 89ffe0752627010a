/*
Package queue provides a bounded, thread-safe blocking FIFO queue for
coordinating producer and consumer goroutines.

# Overview

A Queue has a fixed capacity set at construction. Put blocks while the
queue is full, Get blocks while it is empty, and Shutdown releases every
blocked caller without discarding buffered items: Get keeps succeeding
until the buffer is drained, then reports failure.

# Synchronization

A single mutex guards the buffer, the shutdown flag, and the counters.
Two condition variables are derived from it ("not full" and "not empty")
so a blocked Put is only woken when space appears and a blocked Get is
only woken when an item appears. All waits re-check their predicate in a
loop, which covers spurious wakeups, multiple waiters racing for one
slot, and shutdown racing with a pending wait.

# Usage

	q := queue.MustNew[string](10)
	defer q.Shutdown()

	go func() {
		for _, item := range items {
			if !q.Put(item) {
				return // queue shut down
			}
		}
	}()

	for {
		item, ok := q.GetTimeout(100 * time.Millisecond)
		if !ok {
			if q.IsShutdown() && q.IsEmpty() {
				break
			}
			continue
		}
		process(item)
	}
*/
package queue
