package feed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-consumable/pkg/datastructs/consumable"
	"github.com/huynhanx03/go-consumable/pkg/settings"
)

// fakeSession implements the parts of sarama.ConsumerGroupSession the handler uses.
type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx context.Context

	mu     sync.Mutex
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }
func (s *fakeSession) MemberID() string         { return "member-1" }
func (s *fakeSession) GenerationID() int32      { return 1 }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	msgs chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.msgs }

// fakeGroup runs the handler over a fixed claim once, then blocks until closed.
type fakeGroup struct {
	sarama.ConsumerGroup
	claim  *fakeClaim
	errs   chan error
	closed chan struct{}
	once   sync.Once
}

func (g *fakeGroup) Consume(ctx context.Context, _ []string, h sarama.ConsumerGroupHandler) error {
	sess := &fakeSession{ctx: ctx}
	if err := h.Setup(sess); err != nil {
		return err
	}
	if err := h.ConsumeClaim(sess, g.claim); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return nil
	case <-g.closed:
		return sarama.ErrClosedConsumerGroup
	}
}

func (g *fakeGroup) Errors() <-chan error { return g.errs }

func (g *fakeGroup) Close() error {
	g.once.Do(func() {
		close(g.closed)
		close(g.errs)
	})
	return nil
}

func messages(values ...string) chan *sarama.ConsumerMessage {
	ch := make(chan *sarama.ConsumerMessage, len(values))
	for i, v := range values {
		ch <- &sarama.ConsumerMessage{Value: []byte(v), Offset: int64(i)}
	}
	close(ch)
	return ch
}

// =============================================================================
// kafkaHandler
// =============================================================================

func TestKafkaHandler_ConsumeClaim(t *testing.T) {
	pool := consumable.NewShared[string](nil)
	defer pool.Release()

	h := &kafkaHandler{pool: pool, log: zap.NewNop()}
	sess := &fakeSession{ctx: context.Background()}

	err := h.ConsumeClaim(sess, &fakeClaim{msgs: messages("a", "b", "c")})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, pool.Items())
	assert.Equal(t, []int64{0, 1, 2}, sess.marked)
}

func TestKafkaHandler_StopsOnSessionEnd(t *testing.T) {
	pool := consumable.NewShared[string](nil)
	defer pool.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := &kafkaHandler{pool: pool, log: zap.NewNop()}
	err := h.ConsumeClaim(&fakeSession{ctx: ctx}, &fakeClaim{msgs: make(chan *sarama.ConsumerMessage)})
	require.NoError(t, err)
	assert.True(t, pool.IsEmpty())
}

// =============================================================================
// KafkaSource
// =============================================================================

func TestNewKafkaSource_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     settings.Kafka
		wantErr error
	}{
		{"no_brokers", settings.Kafka{Topics: []string{"t"}}, ErrNoBrokers},
		{"no_topics", settings.Kafka{Brokers: []string{"localhost:9092"}}, ErrNoTopics},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKafkaSource(&tt.cfg, consumable.NewShared[string](nil), zap.NewNop())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewKafkaConfig(t *testing.T) {
	sc, err := NewKafkaConfig(&settings.Kafka{Version: "2.8.0", Oldest: true, Timeout: 7})
	require.NoError(t, err)
	assert.Equal(t, sarama.V2_8_0_0, sc.Version)
	assert.Equal(t, sarama.OffsetOldest, sc.Consumer.Offsets.Initial)
	assert.Equal(t, 7*time.Second, sc.Net.DialTimeout)

	_, err = NewKafkaConfig(&settings.Kafka{Version: "not-a-version"})
	assert.Error(t, err)
}

func TestKafkaSource_Run(t *testing.T) {
	pool := consumable.NewShared[string](nil)
	defer pool.Release()

	group := &fakeGroup{
		claim:  &fakeClaim{msgs: messages("x1", "x2")},
		errs:   make(chan error),
		closed: make(chan struct{}),
	}
	src := newKafkaSource(group, &settings.Kafka{Topics: []string{"items"}, RetryBackoff: 10}, pool, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- src.Run(context.Background()) }()

	require.Eventually(t, func() bool { return pool.Len() == 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, src.Close())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Close")
	}
	assert.Equal(t, []string{"x1", "x2"}, pool.Items())
}
