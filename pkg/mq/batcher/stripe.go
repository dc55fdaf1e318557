package batcher

import "sync"

// stripe is a single buffer guarded by its own lock.
type stripe[T any] struct {
	mu   sync.Mutex
	sink Sink[T]
	data []T
	cap  int
}

// newStripe creates a new stripe with the given sink and capacity.
func newStripe[T any](sink Sink[T], capacity int) *stripe[T] {
	return &stripe[T]{
		sink: sink,
		data: make([]T, 0, capacity),
		cap:  capacity,
	}
}

// push appends an item, flushing to the sink once the stripe is full.
func (s *stripe[T]) push(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = append(s.data, item)
	if len(s.data) >= s.cap {
		s.flushLocked()
	}
}

// flush hands any buffered items to the sink.
func (s *stripe[T]) flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked()
}

func (s *stripe[T]) flushLocked() {
	if len(s.data) == 0 {
		return
	}
	s.sink.AddAll(s.data...)

	// The sink may retain the slice, so start a fresh one.
	s.data = make([]T, 0, s.cap)
}

func (s *stripe[T]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}
