package cache

import (
	"context"
	"fmt"

	"github.com/erp/pricelist/internal/domain/shared"
	"github.com/erp/pricelist/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Store backends accepted in event.idempotency_store
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// IdempotencyStoreFactory builds the idempotency store named in the event config
type IdempotencyStoreFactory struct {
	event         config.EventConfig
	redis         config.RedisConfig
	logger        *zap.Logger
	allowFallback bool
}

// IdempotencyStoreFactoryOption is a functional option for configuring the factory
type IdempotencyStoreFactoryOption func(*IdempotencyStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to the
// in-memory store instead of failing
func WithInMemoryFallback(allow bool) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.allowFallback = allow
	}
}

// NewIdempotencyStoreFactory creates a new factory
func NewIdempotencyStoreFactory(event config.EventConfig, redis config.RedisConfig, opts ...IdempotencyStoreFactoryOption) *IdempotencyStoreFactory {
	f := &IdempotencyStoreFactory{
		event:         event,
		redis:         redis,
		logger:        zap.NewNop(),
		allowFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore creates the configured store
func (f *IdempotencyStoreFactory) CreateStore(ctx context.Context) (shared.IdempotencyStore, error) {
	switch f.event.IdempotencyStore {
	case "", StoreMemory:
		f.logger.Info("using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(), nil
	case StoreRedis:
		store, err := NewRedisIdempotencyStore(ctx, f.redis, f.event.IdempotencyPrefix)
		if err == nil {
			f.logger.Info("using Redis idempotency store", zap.String("addr", f.redis.Addr()))
			return store, nil
		}
		if !f.allowFallback {
			return nil, fmt.Errorf("redis idempotency store unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory idempotency store",
			zap.Error(err),
		)
		return NewInMemoryIdempotencyStore(), nil
	default:
		return nil, fmt.Errorf("unknown idempotency store %q", f.event.IdempotencyStore)
	}
}
