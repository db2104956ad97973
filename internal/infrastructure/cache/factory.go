package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/erp/purchasing/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StoreFactory decides between Redis-backed and in-process stores.
// When Redis is disabled or unreachable (and fallback is allowed) Client
// returns nil and callers use their in-memory variants.
type StoreFactory struct {
	cfg                   config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	client                *redis.Client
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis is fatal
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg config.RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		cfg:                   cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Connect opens and pings the Redis client when Redis is enabled
func (f *StoreFactory) Connect(ctx context.Context) error {
	if !f.cfg.Enabled {
		f.logger.Info("redis disabled, using in-memory stores")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         f.cfg.Addr(),
		Password:     f.cfg.Password,
		DB:           f.cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		if !f.allowInMemoryFallback {
			return fmt.Errorf("redis required but unavailable: %w", err)
		}
		f.logger.Warn("redis unavailable, falling back to in-memory stores; "+
			"idempotency keys and logouts will not be shared between instances",
			zap.String("addr", f.cfg.Addr()),
			zap.Error(err),
		)
		return nil
	}

	f.logger.Info("connected to redis", zap.String("addr", f.cfg.Addr()))
	f.client = client
	return nil
}

// Client returns the Redis client, or nil when stores are in-memory
func (f *StoreFactory) Client() *redis.Client {
	return f.client
}

// IdempotencyStore returns a Redis store when connected, otherwise an in-memory one
func (f *StoreFactory) IdempotencyStore() shared.IdempotencyStore {
	if f.client != nil {
		return NewRedisIdempotencyStore(f.client, "")
	}
	return NewInMemoryIdempotencyStore()
}

// Close closes the Redis client if one was opened
func (f *StoreFactory) Close() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}
