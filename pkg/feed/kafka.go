package feed

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-consumable/pkg/settings"
	"github.com/huynhanx03/go-consumable/pkg/utils"
)

var _ sarama.ConsumerGroupHandler = (*kafkaHandler)(nil)

// kafkaHandler adds every claimed message value to the pool and marks it.
type kafkaHandler struct {
	pool Adder[string]
	log  *zap.Logger
}

func (h *kafkaHandler) Setup(s sarama.ConsumerGroupSession) error {
	h.log.Info("kafka session started", zap.String("member", s.MemberID()), zap.Int32("generation", s.GenerationID()))
	return nil
}

func (h *kafkaHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *kafkaHandler) ConsumeClaim(s sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			h.pool.Add(string(msg.Value))
			s.MarkMessage(msg, "")
		case <-s.Context().Done():
			return nil
		}
	}
}

// KafkaSource feeds a pool from a Kafka consumer group.
type KafkaSource struct {
	group   sarama.ConsumerGroup
	topics  []string
	backoff time.Duration
	handler *kafkaHandler
	log     *zap.Logger
}

// NewKafkaConfig maps settings onto a sarama consumer configuration.
func NewKafkaConfig(cfg *settings.Kafka) (*sarama.Config, error) {
	sc := sarama.NewConfig()
	if cfg.Version != "" {
		v, err := sarama.ParseKafkaVersion(cfg.Version)
		if err != nil {
			return nil, errors.Wrapf(err, "kafka version %q", cfg.Version)
		}
		sc.Version = v
	}
	if cfg.Oldest {
		sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	}
	if cfg.Timeout > 0 {
		sc.Net.DialTimeout = utils.ToDuration(cfg.Timeout)
	}
	sc.Consumer.Return.Errors = true
	return sc, nil
}

// NewKafkaSource joins the configured consumer group.
func NewKafkaSource(cfg *settings.Kafka, pool Adder[string], log *zap.Logger) (*KafkaSource, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if len(cfg.Topics) == 0 {
		return nil, ErrNoTopics
	}
	sc, err := NewKafkaConfig(cfg)
	if err != nil {
		return nil, err
	}
	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, sc)
	if err != nil {
		return nil, errors.Wrapf(ErrConnectionFailed, "kafka group %s: %v", cfg.GroupID, err)
	}
	return newKafkaSource(group, cfg, pool, log), nil
}

func newKafkaSource(group sarama.ConsumerGroup, cfg *settings.Kafka, pool Adder[string], log *zap.Logger) *KafkaSource {
	return &KafkaSource{
		group:   group,
		topics:  cfg.Topics,
		backoff: utils.ToDurationMs(cfg.RetryBackoff),
		handler: &kafkaHandler{pool: pool, log: log},
		log:     log,
	}
}

// Run consumes until ctx is done. Consume returns on every rebalance, so it
// is called in a loop.
func (k *KafkaSource) Run(ctx context.Context) error {
	go func() {
		for err := range k.group.Errors() {
			k.log.Warn("kafka consumer error", zap.Error(err))
		}
	}()

	k.log.Info("kafka feed started", zap.Strings("topics", k.topics))
	for {
		if err := k.group.Consume(ctx, k.topics, k.handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			k.log.Error("kafka consume failed", zap.Error(err))
			select {
			case <-time.After(k.backoff):
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			k.log.Info("kafka feed stopped")
			return nil
		}
	}
}

// Close leaves the consumer group.
func (k *KafkaSource) Close() error {
	return k.group.Close()
}
