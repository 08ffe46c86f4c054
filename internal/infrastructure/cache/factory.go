package cache

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bookingops/console/internal/domain/shared"
	"github.com/bookingops/console/internal/infrastructure/config"
)

// Factory creates the console state store based on configuration
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to memory when Redis is unreachable
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Stores is what the factory produced. Client is nil when state lives in memory.
type Stores struct {
	State  shared.StateStore
	Client *redis.Client
	closer io.Closer
}

// Close releases the Redis client or stops the in-memory sweeper
func (s *Stores) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// ConnectRedis opens and pings a Redis client
func (f *Factory) ConnectRedis(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Create returns a Redis backed store when Redis is enabled and reachable,
// otherwise an in-memory store if fallback is allowed
func (f *Factory) Create(ctx context.Context) (*Stores, error) {
	if f.redisConfig.Enabled {
		client, err := f.ConnectRedis(ctx)
		if err == nil {
			f.logger.Info("Using Redis state store", zap.String("addr", f.redisConfig.Addr()))
			return &Stores{
				State:  NewRedisStateStore(client, f.redisConfig.KeyPrefix),
				Client: client,
				closer: client,
			}, nil
		}
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("Redis required for console state but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory state store. "+
			"Drafts and sessions will not be shared between instances.",
			zap.Error(err),
		)
	}

	mem := NewInMemoryStateStore(time.Minute)
	return &Stores{State: mem, closer: mem}, nil
}
