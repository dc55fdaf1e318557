package feed

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/huynhanx03/go-consumable/pkg/datastructs/consumable"
)

// BatchFunc handles a consumed batch. Returning done=true stops the drain.
type BatchFunc[T any] func(batch *consumable.Vec[T]) (done bool, err error)

// Drain consumes match from c every interval and hands each batch to fn.
// It returns when fn reports done, fn fails, or ctx is done.
func Drain[T any](ctx context.Context, c consumable.Consumable[T], match consumable.Predicate[T], interval time.Duration, fn BatchFunc[T]) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		batch, ok := c.Consume(match)
		if !ok {
			continue
		}
		done, err := fn(batch)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Produce adds items to c in order, waiting pause(i) after the i-th item.
// A nil pause adds without waiting. Returns early when ctx is done.
func Produce[T any](ctx context.Context, c Adder[T], items []T, pause func(i int) time.Duration) error {
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.Add(item)
		if pause == nil {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause(i)):
		}
	}
	return nil
}

// Adder is the producer side of a pool. Every consumable container satisfies it.
type Adder[T any] interface {
	Add(item T)
}

// Runner is anything that runs until its context is done.
type Runner interface {
	Run(ctx context.Context) error
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context) error

func (f RunnerFunc) Run(ctx context.Context) error { return f(ctx) }

// Run starts every runner and waits for all of them. The first failure
// cancels the others and is returned.
func Run(ctx context.Context, runners ...Runner) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, r := range runners {
		g.Go(func() error { return r.Run(ctx) })
	}
	return g.Wait()
}
