package cache

import (
	"context"
	"time"

	"github.com/bytedance/sonic"

	"github.com/sheetbridge/busybusy-export/internal/logger"
)

// Fetch is the explicit check → compute → write cycle: return the cached
// value for key if present, otherwise run compute, cache its result with ttl
// and return it. Cache read and write failures degrade to a plain compute;
// only compute's own error fails the call.
//
// Concurrent callers racing on the same key will each compute and the last
// write wins, which is acceptable for these idempotent exports.
func Fetch[T any](ctx context.Context, store Store, log *logger.Logger, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if data, ok := store.Get(ctx, key); ok {
		var cached T
		if err := sonic.Unmarshal(data, &cached); err == nil {
			log.Debug("cache hit", "key", key)
			return cached, nil
		} else {
			log.Warn("cache entry undecodable, recomputing", "key", key, "error", err)
		}
	}
	log.Debug("cache miss", "key", key)

	result, err := compute(ctx)
	if err != nil {
		return zero, err
	}

	data, err := sonic.Marshal(result)
	if err != nil {
		log.Warn("cache encode failed, serving uncached", "key", key, "error", err)
		return result, nil
	}
	if err := store.Set(ctx, key, data, ttl); err != nil {
		log.Warn("cache write failed, serving uncached", "key", key, "error", err)
	}
	return result, nil
}
