package consumable

import (
	"iter"
	"slices"
)

// Vec is an ordered, append-only store of items that can be consumed by match.
// The zero value is an empty Vec ready to use.
// It is NOT thread-safe; wrap it in a Shared when it must be used concurrently.
type Vec[T any] struct {
	data []T
}

// NewVec creates a Vec seeded with a copy of initial.
func NewVec[T any](initial []T) *Vec[T] {
	return &Vec[T]{data: slices.Clone(initial)}
}

// Add appends an item.
func (v *Vec[T]) Add(item T) {
	v.data = append(v.data, item)
}

// AddAll appends items in order.
func (v *Vec[T]) AddAll(items ...T) {
	v.data = append(v.data, items...)
}

// Consume removes and returns every item matching match.
//
// Both partitions are built before the store is replaced, so a predicate
// that panics leaves the Vec unchanged.
func (v *Vec[T]) Consume(match Predicate[T]) (*Vec[T], bool) {
	var matched, kept []T
	for _, item := range v.data {
		if match(item) {
			matched = append(matched, item)
		} else {
			kept = append(kept, item)
		}
	}
	if len(matched) == 0 {
		return nil, false
	}

	clear(v.data) // drop references held by the old backing array
	v.data = kept
	return &Vec[T]{data: matched}, true
}

// Len returns the number of stored items.
func (v *Vec[T]) Len() int { return len(v.data) }

// IsEmpty reports whether the Vec holds no items.
func (v *Vec[T]) IsEmpty() bool { return len(v.data) == 0 }

// Clear removes all items and releases the backing array.
func (v *Vec[T]) Clear() {
	clear(v.data)
	v.data = nil
}

// Items returns a copy of the stored items in insertion order.
func (v *Vec[T]) Items() []T {
	return slices.Clone(v.data)
}

// All iterates over the stored items in insertion order.
// The Vec must not be modified during iteration.
func (v *Vec[T]) All() iter.Seq[T] {
	return slices.Values(v.data)
}
