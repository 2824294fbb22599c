package events

// Queue is a growable FIFO ring buffer drained once per tick
type Queue[T any] struct {
	buf  []T
	head int
	size int
}

// NewQueue creates a queue with room for capacity items before growing
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{buf: make([]T, capacity)}
}

// Push appends v at the tail
func (q *Queue[T]) Push(v T) {
	if q.size == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.size)%len(q.buf)] = v
	q.size++
}

// Pop removes and returns the head item
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	if q.size == 0 {
		return zero, false
	}
	v := q.buf[q.head]
	q.buf[q.head] = zero
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return v, true
}

// Drain pops every queued item in FIFO order.
// Items pushed by fn are drained in the same call.
func (q *Queue[T]) Drain(fn func(T)) int {
	n := 0
	for {
		v, ok := q.Pop()
		if !ok {
			return n
		}
		fn(v)
		n++
	}
}

// Len returns the number of queued items
func (q *Queue[T]) Len() int {
	return q.size
}

// Cap returns the current ring capacity
func (q *Queue[T]) Cap() int {
	return len(q.buf)
}

func (q *Queue[T]) grow() {
	next := make([]T, len(q.buf)*2)
	for i := 0; i < q.size; i++ {
		next[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = next
	q.head = 0
}
