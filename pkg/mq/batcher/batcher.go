package batcher

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/huynhanx03/go-consumable/pkg/utils"
)

const (
	defaultStripeSize    = 512
	defaultFlushInterval = 50 * time.Millisecond
)

// StripedBatcher groups items pushed by many goroutines into batches so that a
// Sink guarded by a single lock is acquired once per batch instead of once per item.
//
// Behavior:
//   - Multiple goroutines can call Push() concurrently.
//   - Pushes are spread round-robin over the stripes, each with its own lock.
//   - When a stripe is full, it is flushed to the Sink immediately.
//   - Flush() drains every stripe; call it before shutdown so nothing is lost.
//   - FlushEvery() bounds how long a partial stripe waits for the Sink.
//   - Order is preserved within a stripe only. Use Stripes: 1 when a single
//     producer needs its items to reach the Sink in push order.
type StripedBatcher[T any] struct {
	stripes []*stripe[T]
	mask    uint64
	next    atomic.Uint64
}

// New creates a new StripedBatcher for type T.
func New[T any](sink Sink[T], cfg Config) *StripedBatcher[T] {
	if cfg.StripeSize <= 0 {
		cfg.StripeSize = defaultStripeSize
	}
	if cfg.Stripes <= 0 {
		cfg.Stripes = runtime.GOMAXPROCS(0)
	}
	n := 1
	if cfg.Stripes > 1 {
		n = utils.CeilToPowerOfTwo(cfg.Stripes)
	}

	b := &StripedBatcher[T]{
		stripes: make([]*stripe[T], n),
		mask:    uint64(n - 1),
	}
	for i := range b.stripes {
		b.stripes[i] = newStripe(sink, cfg.StripeSize)
	}
	return b
}

// Push adds an item to the batcher.
// It may trigger a flush to the Sink if the selected stripe becomes full.
func (b *StripedBatcher[T]) Push(item T) {
	idx := (b.next.Add(1) - 1) & b.mask
	b.stripes[idx].push(item)
}

// Flush hands every buffered item to the Sink.
func (b *StripedBatcher[T]) Flush() {
	for _, s := range b.stripes {
		s.flush()
	}
}

// FlushEvery flushes all stripes every interval until ctx is done, then
// flushes once more. Items pushed below StripeSize reach the Sink within
// one interval.
func (b *StripedBatcher[T]) FlushEvery(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = defaultFlushInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.Flush()
			return nil
		case <-ticker.C:
			b.Flush()
		}
	}
}

// Pending returns the number of buffered items not yet flushed.
// Not atomic across stripes.
func (b *StripedBatcher[T]) Pending() int {
	total := 0
	for _, s := range b.stripes {
		total += s.len()
	}
	return total
}
