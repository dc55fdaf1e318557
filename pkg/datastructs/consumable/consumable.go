// Package consumable provides containers whose contents are withdrawn by
// match rather than by position. Producers append items; consumers remove
// every item that satisfies a predicate in one atomic step.
//
// Two variants share the same contract:
//   - Vec is a plain, single-owner container. It is NOT thread-safe.
//   - Shared is a handle onto a mutex-guarded Vec. Handles are duplicated
//     with Clone and may be used from any number of goroutines.
package consumable

// Predicate reports whether an item should be consumed.
type Predicate[T any] func(item T) bool

// Consumable is the capability shared by every container variant.
type Consumable[T any] interface {
	// Add appends an item to the end of the store.
	Add(item T)

	// Consume removes every item matching match and returns them, in their
	// original order, as a new Vec. Returns (nil, false) and leaves the
	// store untouched when nothing matches.
	Consume(match Predicate[T]) (*Vec[T], bool)
}

// Container is a Consumable with bulk and inspection helpers.
type Container[T any] interface {
	Consumable[T]

	AddAll(items ...T)
	Len() int
	IsEmpty() bool
	Clear()
	Items() []T
}

var (
	_ Container[string] = (*Vec[string])(nil)
	_ Container[string] = (*Shared[string])(nil)
)
