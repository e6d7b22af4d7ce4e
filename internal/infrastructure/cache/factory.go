package cache

import (
	"fmt"

	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// OpenIdempotencyStore picks the Idempotency-Key backend. Redis is used when
// enabled; if it cannot be reached the process-local store takes over unless
// idem.RequireShared is set.
func OpenIdempotencyStore(redisCfg config.RedisConfig, idem config.IdempotencyConfig, log *zap.Logger) (shared.IdempotencyStore, error) {
	if !redisCfg.Enabled {
		if idem.RequireShared {
			return nil, fmt.Errorf("idempotency.require_shared is set but redis is disabled")
		}
		log.Info("Idempotency keys held in memory")
		return NewInMemoryIdempotencyStore(0), nil
	}

	store, err := NewRedisIdempotencyStore(redisCfg)
	switch {
	case err == nil:
		log.Info("Idempotency keys held in redis", zap.String("addr", redisCfg.Addr()))
		return store, nil
	case idem.RequireShared:
		return nil, fmt.Errorf("redis idempotency store: %w", err)
	}

	log.Warn("Redis unreachable, idempotency keys fall back to memory and are not shared between instances",
		zap.String("addr", redisCfg.Addr()), zap.Error(err))
	return NewInMemoryIdempotencyStore(0), nil
}
