package cache

import (
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore selects a store from configuration. Redis is used when
// enabled and reachable; otherwise the store falls back to in-memory with a
// warning, since a local store cannot deduplicate across instances.
func NewIdempotencyStore(cfg config.RedisConfig, logger *zap.Logger) shared.IdempotencyStore {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Enabled {
		store, err := NewRedisIdempotencyStore(cfg)
		if err == nil {
			logger.Info("using Redis idempotency store", zap.String("addr", cfg.Addr()))
			return store
		}
		logger.Warn("Redis unavailable, falling back to in-memory idempotency store",
			zap.Error(err),
		)
	}

	return NewInMemoryIdempotencyStore()
}
