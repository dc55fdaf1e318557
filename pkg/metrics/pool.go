package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/huynhanx03/go-consumable/pkg/datastructs/consumable"
)

const namespace = "consumable"

// Collectors are the pool metrics. One set is shared by every Instrumented
// pool registered with the same Registerer; pools are told apart by the
// "pool" label.
type Collectors struct {
	added         *prometheus.CounterVec
	consumed      *prometheus.CounterVec
	consumeCalls  *prometheus.CounterVec
	items         *prometheus.GaugeVec
	consumedBatch *prometheus.HistogramVec
}

// NewCollectors creates the collectors and registers them with reg.
func NewCollectors(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		added: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_added_total",
			Help:      "Total number of items added to the pool.",
		}, []string{"pool"}),
		consumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_consumed_total",
			Help:      "Total number of items removed from the pool by consume calls.",
		}, []string{"pool"}),
		consumeCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consume_calls_total",
			Help:      "Total number of consume calls by result (hit, miss).",
		}, []string{"pool", "result"}),
		items: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "items",
			Help:      "Number of items currently held by the pool.",
		}, []string{"pool"}),
		consumedBatch: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "consumed_batch_size",
			Help:      "Size of batches returned by successful consume calls.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"pool"}),
	}

	for _, col := range []prometheus.Collector{c.added, c.consumed, c.consumeCalls, c.items, c.consumedBatch} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Instrumented wraps a Container and records every Add and Consume.
type Instrumented[T any] struct {
	consumable.Container[T]

	added    prometheus.Counter
	consumed prometheus.Counter
	hits     prometheus.Counter
	misses   prometheus.Counter
	items    prometheus.Gauge
	batch    prometheus.Observer
}

var _ consumable.Container[string] = (*Instrumented[string])(nil)

// Instrument wraps c, labelling its metrics with name.
func Instrument[T any](c consumable.Container[T], cols *Collectors, name string) *Instrumented[T] {
	i := &Instrumented[T]{
		Container: c,
		added:     cols.added.WithLabelValues(name),
		consumed:  cols.consumed.WithLabelValues(name),
		hits:      cols.consumeCalls.WithLabelValues(name, "hit"),
		misses:    cols.consumeCalls.WithLabelValues(name, "miss"),
		items:     cols.items.WithLabelValues(name),
		batch:     cols.consumedBatch.WithLabelValues(name),
	}
	i.items.Set(float64(c.Len()))
	return i
}

func (i *Instrumented[T]) Add(item T) {
	i.Container.Add(item)
	i.added.Inc()
	i.items.Inc()
}

func (i *Instrumented[T]) AddAll(items ...T) {
	i.Container.AddAll(items...)
	i.added.Add(float64(len(items)))
	i.items.Add(float64(len(items)))
}

func (i *Instrumented[T]) Consume(match consumable.Predicate[T]) (*consumable.Vec[T], bool) {
	batch, ok := i.Container.Consume(match)
	if !ok {
		i.misses.Inc()
		return nil, false
	}
	n := float64(batch.Len())
	i.hits.Inc()
	i.consumed.Add(n)
	i.items.Sub(n)
	i.batch.Observe(n)
	return batch, true
}

func (i *Instrumented[T]) Clear() {
	i.Container.Clear()
	i.items.Set(0)
}
