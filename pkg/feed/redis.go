package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	redisV9 "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-consumable/pkg/settings"
	"github.com/huynhanx03/go-consumable/pkg/utils"
)

const (
	defaultPoolSize        = 10
	defaultMinIdleConns    = 2
	defaultPoolTimeout     = 5
	defaultDialTimeout     = 5
	defaultWriteTimeout    = 3
	defaultMaxRetries      = 3
	defaultMinRetryBackoff = 300 // millis
	defaultMaxRetryBackoff = 500 // millis
	defaultBlockTimeout    = 1
)

// RedisSource pops items from a Redis list and adds them to a pool.
// Producers push with LPUSH or RPUSH; items are taken from the head.
type RedisSource struct {
	client *redisV9.Client
	config *settings.Redis
	pool   Adder[string]
	log    *zap.Logger
}

// NewRedisSource connects to Redis and returns a source feeding pool.
func NewRedisSource(cfg *settings.Redis, pool Adder[string], log *zap.Logger) (*RedisSource, error) {
	r := &RedisSource{config: cfg, pool: pool, log: log}
	if err := r.connect(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	return r, nil
}

// connect initializes the Redis client
func (r *RedisSource) connect() error {
	r.setDefaultConfig()

	addr := r.config.Host
	if r.config.Port > 0 {
		addr = fmt.Sprintf("%s:%d", addr, r.config.Port)
	}

	r.client = redisV9.NewClient(&redisV9.Options{
		Addr:            addr,
		Password:        r.config.Password,
		DB:              r.config.Database,
		PoolSize:        r.config.PoolSize,
		MinIdleConns:    r.config.MinIdleConns,
		MaxRetries:      r.config.MaxRetries,
		DialTimeout:     utils.ToDuration(r.config.DialTimeout),
		ReadTimeout:     utils.ToDuration(r.config.ReadTimeout),
		WriteTimeout:    utils.ToDuration(r.config.WriteTimeout),
		PoolTimeout:     utils.ToDuration(r.config.PoolTimeout),
		MinRetryBackoff: utils.ToDurationMs(r.config.MinRetryBackoff),
		MaxRetryBackoff: utils.ToDurationMs(r.config.MaxRetryBackoff),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.client.Ping(ctx).Err(); err != nil {
		_ = r.client.Close()
		return fmt.Errorf("%w: %v", ErrPingFailed, err)
	}
	return nil
}

// setDefaultConfig sets default values for Redis configuration
func (r *RedisSource) setDefaultConfig() {
	if r.config.PoolSize == 0 {
		r.config.PoolSize = defaultPoolSize
	}
	if r.config.MinIdleConns == 0 {
		r.config.MinIdleConns = defaultMinIdleConns
	}
	if r.config.PoolTimeout == 0 {
		r.config.PoolTimeout = defaultPoolTimeout
	}
	if r.config.DialTimeout == 0 {
		r.config.DialTimeout = defaultDialTimeout
	}
	if r.config.BlockTimeout <= 0 {
		r.config.BlockTimeout = defaultBlockTimeout
	}
	// BLPOP holds the connection for up to BlockTimeout; the read deadline must outlast it.
	if r.config.ReadTimeout <= r.config.BlockTimeout {
		r.config.ReadTimeout = r.config.BlockTimeout + 2
	}
	if r.config.WriteTimeout == 0 {
		r.config.WriteTimeout = defaultWriteTimeout
	}
	if r.config.MaxRetries == 0 {
		r.config.MaxRetries = defaultMaxRetries
	}
	if r.config.MinRetryBackoff == 0 {
		r.config.MinRetryBackoff = defaultMinRetryBackoff
	}
	if r.config.MaxRetryBackoff == 0 {
		r.config.MaxRetryBackoff = defaultMaxRetryBackoff
	}
}

// Run pops items until ctx is done. A BLPOP timeout is not an error.
func (r *RedisSource) Run(ctx context.Context) error {
	block := utils.ToDuration(r.config.BlockTimeout)
	r.log.Info("redis feed started", zap.String("list", r.config.List))

	for {
		res, err := r.client.BLPop(ctx, block, r.config.List).Result()
		switch {
		case ctx.Err() != nil:
			r.log.Info("redis feed stopped", zap.String("list", r.config.List))
			return nil
		case errors.Is(err, redisV9.Nil):
			continue
		case err != nil:
			return errors.Wrapf(err, "blpop %s", r.config.List)
		}

		// res is [list, value].
		if len(res) == 2 {
			r.pool.Add(res[1])
		}
	}
}

// Client returns the underlying redis client (Escape hatch)
func (r *RedisSource) Client() *redisV9.Client {
	return r.client
}

// Close closes the Redis client
func (r *RedisSource) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
