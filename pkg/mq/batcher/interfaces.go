package batcher

// Sink is the interface that receives flushed batches.
// consumable.Vec and consumable.Shared both satisfy it.
type Sink[T any] interface {
	// AddAll appends a batch of items in order.
	AddAll(items ...T)
}

// Config holds configuration for the StripedBatcher.
type Config struct {
	// StripeSize is the capacity of a single stripe buffer.
	// When a stripe reaches this size, it will be flushed to the Sink.
	StripeSize int

	// Stripes is the number of independent stripes. Rounded up to a power of 2.
	// Defaults to GOMAXPROCS.
	Stripes int
}
