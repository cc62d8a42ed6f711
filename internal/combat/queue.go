package combat

// Queue is a per-tick message list. Producers push during one phase and a
// later phase of the same tick drains it; nothing carries over.
type Queue[T any] struct {
	items []T
}

// Push appends an item.
func (q *Queue[T]) Push(v T) {
	q.items = append(q.items, v)
}

// Len returns the number of pending items.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Drain returns all pending items in push order and empties the queue.
func (q *Queue[T]) Drain() []T {
	out := q.items
	q.items = nil
	return out
}
