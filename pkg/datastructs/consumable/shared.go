package consumable

import (
	"sync"
	"sync/atomic"
)

const errReleased = "consumable: use of released handle"

// store is the guarded Vec behind every Shared handle.
type store[T any] struct {
	mu   sync.Mutex
	vec  Vec[T]
	refs atomic.Int64 // live handles, updated without mu
}

// Shared is a handle onto a mutex-guarded Vec.
//
// Handles obtained from Clone refer to the same store: an item added through
// one is visible to, and consumable through, every other. Each operation holds
// the store lock exactly once for its whole body, so Add and Consume are
// linearizable and two consumers never claim the same item.
//
// The store lives until the last handle is Released.
type Shared[T any] struct {
	s        *store[T]
	released atomic.Bool
}

// NewShared creates a store seeded with a copy of initial and returns its first handle.
// NewShared[T](nil) yields an empty store.
func NewShared[T any](initial []T) *Shared[T] {
	s := &store[T]{}
	s.vec.AddAll(initial...)
	s.refs.Store(1)
	return &Shared[T]{s: s}
}

// Clone returns a new handle onto the same store. No items are copied.
// Cloning a store whose last handle is already released panics, even when
// that Release races with this call.
func (h *Shared[T]) Clone() *Shared[T] {
	s := h.store()
	for {
		n := s.refs.Load()
		if n <= 0 {
			panic(errReleased)
		}
		if s.refs.CompareAndSwap(n, n+1) {
			return &Shared[T]{s: s}
		}
	}
}

// Release drops this handle. Releasing twice is a no-op.
// When the last handle is released the stored items are dropped.
func (h *Shared[T]) Release() {
	if !h.released.CompareAndSwap(false, true) {
		return
	}
	if h.s.refs.Add(-1) == 0 {
		h.s.mu.Lock()
		h.s.vec.Clear()
		h.s.mu.Unlock()
	}
}

// Refs returns the number of live handles onto the store.
func (h *Shared[T]) Refs() int64 {
	return h.s.refs.Load()
}

// Add appends an item.
func (h *Shared[T]) Add(item T) {
	s := h.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vec.Add(item)
}

// AddAll appends items in order under a single lock acquisition.
func (h *Shared[T]) AddAll(items ...T) {
	s := h.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vec.AddAll(items...)
}

// Consume removes and returns every item matching match.
// match runs while the store is locked and must not use any handle of the same store.
func (h *Shared[T]) Consume(match Predicate[T]) (*Vec[T], bool) {
	s := h.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vec.Consume(match)
}

// Len returns the number of stored items.
func (h *Shared[T]) Len() int {
	s := h.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vec.Len()
}

// IsEmpty reports whether the store holds no items.
func (h *Shared[T]) IsEmpty() bool {
	return h.Len() == 0
}

// Clear removes all items.
func (h *Shared[T]) Clear() {
	s := h.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vec.Clear()
}

// Items returns a snapshot of the stored items in insertion order.
func (h *Shared[T]) Items() []T {
	s := h.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vec.Items()
}

func (h *Shared[T]) store() *store[T] {
	if h.released.Load() {
		panic(errReleased)
	}
	return h.s
}
