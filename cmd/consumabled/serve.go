package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-consumable/pkg/datastructs/consumable"
	"github.com/huynhanx03/go-consumable/pkg/feed"
	"github.com/huynhanx03/go-consumable/pkg/metrics"
	"github.com/huynhanx03/go-consumable/pkg/mq/batcher"
	"github.com/huynhanx03/go-consumable/pkg/server"
	"github.com/huynhanx03/go-consumable/pkg/settings"
	"github.com/huynhanx03/go-consumable/pkg/utils"
)

func serve(ctx context.Context, cfg *settings.Config, log *zap.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	cols, err := metrics.NewCollectors(reg)
	if err != nil {
		return err
	}

	shared := consumable.NewShared(cfg.Pool.Initial)
	defer shared.Release()
	pool := metrics.Instrument[string](shared, cols, cfg.Pool.Name)

	in := newIngest(pool, cfg.Pool)
	defer in.batch.Flush()

	runners := []feed.Runner{
		server.New(cfg.Server, pool,
			server.WithLogger(log),
			server.WithGatherer(reg),
			server.WithRefs(shared.Refs),
		),
		in,
	}

	if cfg.Redis.Enabled {
		src, err := feed.NewRedisSource(&cfg.Redis, in, log.Named("redis"))
		if err != nil {
			return err
		}
		defer src.Close()
		runners = append(runners, src)
	}
	if cfg.Kafka.Enabled {
		// Offsets are marked after Add returns, so Kafka bypasses the batcher.
		src, err := feed.NewKafkaSource(&cfg.Kafka, pool, log.Named("kafka"))
		if err != nil {
			return err
		}
		defer src.Close()
		runners = append(runners, src)
	}
	if cfg.Pool.Drain.Pattern != "" {
		runners = append(runners, drainer(pool, cfg.Pool.Drain, log.Named("drain")))
	}

	log.Info("pool ready", zap.String("pool", cfg.Pool.Name), zap.Int("items", pool.Len()))
	return feed.Run(ctx, runners...)
}

// ingest buffers fed items in a batcher and flushes them into the pool at
// least every FlushInterval. It is the Adder handed to the Redis feed.
type ingest struct {
	batch    *batcher.StripedBatcher[string]
	interval time.Duration
}

func newIngest(pool batcher.Sink[string], cfg settings.Pool) *ingest {
	return &ingest{
		batch: batcher.New[string](pool, batcher.Config{
			StripeSize: cfg.StripeSize,
			Stripes:    cfg.Stripes,
		}),
		interval: utils.ToDurationMs(cfg.FlushInterval),
	}
}

func (in *ingest) Add(item string) { in.batch.Push(item) }

// Run flushes on a timer until ctx is done, then flushes what is left.
func (in *ingest) Run(ctx context.Context) error {
	return in.batch.FlushEvery(ctx, in.interval)
}

func drainer(pool consumable.Consumable[string], cfg settings.Drain, log *zap.Logger) feed.Runner {
	return feed.RunnerFunc(func(ctx context.Context) error {
		return feed.Drain(ctx, pool, consumable.Contains[string](cfg.Pattern), utils.ToDurationMs(cfg.Interval),
			func(b *consumable.Vec[string]) (bool, error) {
				log.Info("consumed", zap.Int("count", b.Len()), zap.Strings("items", b.Items()))
				return false, nil
			})
	})
}
