package queue

// Stats is a consistent snapshot of queue counters.
type Stats struct {
	Added       uint64 `json:"added"`
	Removed     uint64 `json:"removed"`
	BlockedPuts uint64 `json:"blocked_puts"`
	BlockedGets uint64 `json:"blocked_gets"`
	Size        int    `json:"size"`
	Capacity    int    `json:"capacity"`
}

// Stats returns a snapshot taken atomically under the queue lock.
// BlockedPuts and BlockedGets count calls that waited at least once,
// not individual wakeups.
func (q *Queue[T]) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Added:       q.added,
		Removed:     q.removed,
		BlockedPuts: q.blockedPuts,
		BlockedGets: q.blockedGets,
		Size:        q.count,
		Capacity:    q.capacity,
	}
}
