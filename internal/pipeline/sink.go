package pipeline

import "sync"

// Sink accepts consumed items in order. Implementations shared by
// multiple consumers must serialize Append; the interleaving of
// different consumers' items is unspecified.
type Sink[T any] interface {
	Append(item T)
}

// Collector is an append-only, thread-safe Sink backed by a slice.
type Collector[T any] struct {
	mu    sync.Mutex
	items []T
}

// NewCollector creates an empty Collector.
func NewCollector[T any]() *Collector[T] {
	return &Collector[T]{}
}

// Append adds item to the end of the collection.
func (c *Collector[T]) Append(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
}

// Items returns an independent copy of the collected items.
func (c *Collector[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Size returns the number of collected items.
func (c *Collector[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear discards all collected items.
func (c *Collector[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}
