package main

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-consumable/pkg/datastructs/consumable"
	"github.com/huynhanx03/go-consumable/pkg/feed"
)

const (
	demoPrefix        = "Produced"
	demoDrainInterval = 100 * time.Millisecond
)

// demo runs a producer that adds "Produced: n" for n in 1..count, pausing n ms
// after each, and a consumer that drains the pool every 100 ms until it sees
// the last item.
func demo(ctx context.Context, count int, log *zap.Logger) error {
	if count <= 0 {
		return errors.Errorf("demo: count must be positive, got %d", count)
	}

	pool := consumable.NewShared[string](nil)
	defer pool.Release()

	prod := pool.Clone()
	defer prod.Release()

	items := make([]string, count)
	for i := range items {
		items[i] = fmt.Sprintf("%s: %d", demoPrefix, i+1)
	}
	last := items[len(items)-1]

	producer := feed.RunnerFunc(func(ctx context.Context) error {
		return feed.Produce[string](ctx, prod, items, func(i int) time.Duration {
			return time.Duration(i+1) * time.Millisecond
		})
	})
	consumer := feed.RunnerFunc(func(ctx context.Context) error {
		return feed.Drain(ctx, pool, consumable.Contains[string](demoPrefix), demoDrainInterval,
			func(b *consumable.Vec[string]) (bool, error) {
				log.Info("consumed", zap.Strings("items", b.Items()))
				return slices.Contains(b.Items(), last), nil
			})
	})

	return feed.Run(ctx, producer, consumer)
}
