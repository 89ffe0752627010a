package pipeline

// Source is a single-pass, forward-only sequence of items. Next returns
// false once the source is exhausted. A Source is consumed by exactly
// one producer and need not be safe for concurrent use.
type Source[T any] interface {
	Next() (T, bool)
}

type sliceSource[T any] struct {
	items []T
	pos   int
}

// FromSlice returns a Source yielding the items of a slice in order.
func FromSlice[T any](items []T) Source[T] {
	return &sliceSource[T]{items: items}
}

func (s *sliceSource[T]) Next() (T, bool) {
	var zero T
	if s.pos >= len(s.items) {
		return zero, false
	}
	item := s.items[s.pos]
	s.pos++
	return item, true
}

type generateSource[T any] struct {
	count int
	pos   int
	fn    func(i int) T
}

// Generate returns a Source producing count items lazily from fn.
func Generate[T any](count int, fn func(i int) T) Source[T] {
	return &generateSource[T]{count: count, fn: fn}
}

func (g *generateSource[T]) Next() (T, bool) {
	var zero T
	if g.pos >= g.count {
		return zero, false
	}
	item := g.fn(g.pos)
	g.pos++
	return item, true
}

type funcSource[T any] func() (T, bool)

// FromFunc adapts a pull function to a Source.
func FromFunc[T any](fn func() (T, bool)) Source[T] {
	return funcSource[T](fn)
}

func (f funcSource[T]) Next() (T, bool) { return f() }
