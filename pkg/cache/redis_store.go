package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kotechile/trend-analisys-sub006/pkg/logger"
)

// RedisStore implements Store on top of a shared Redis client. A nil client
// puts the store in disabled mode: every operation degrades to a miss or
// no-op so callers never fail because the cache is unreachable.
type RedisStore struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisStore wraps an already-connected Redis client. Pass nil to run
// with caching disabled.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		log:    logger.GetLogger().WithField("component", "redis_cache"),
	}
}

func (rs *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	if rs.client == nil {
		return nil, false
	}

	value, err := rs.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			rs.log.WithError(err).WithField("key", key).Warn("Cache read failed, treating as miss")
		}
		return nil, false
	}
	return value, true
}

func (rs *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if rs.client == nil {
		return false
	}

	if err := rs.client.Set(ctx, key, value, ttl).Err(); err != nil {
		rs.log.WithError(err).WithField("key", key).Warn("Cache write failed")
		return false
	}
	return true
}

func (rs *RedisStore) Delete(ctx context.Context, key string) bool {
	if rs.client == nil {
		return false
	}

	deleted, err := rs.client.Del(ctx, key).Result()
	if err != nil {
		rs.log.WithError(err).WithField("key", key).Warn("Cache delete failed")
		return false
	}
	return deleted > 0
}

// InvalidatePattern scans for keys under "<prefix>:<pattern>" and deletes
// them, returning the count. SCAN keeps the operation incremental so a large
// keyspace does not block the server.
func (rs *RedisStore) InvalidatePattern(ctx context.Context, pattern string) int {
	if rs.client == nil {
		return 0
	}

	fullPattern := KeyPrefix + ":" + pattern
	deleted := 0
	var cursor uint64

	for {
		keys, next, err := rs.client.Scan(ctx, cursor, fullPattern, 100).Result()
		if err != nil {
			rs.log.WithError(err).WithField("pattern", fullPattern).Warn("Cache scan failed during invalidation")
			return deleted
		}
		if len(keys) > 0 {
			n, err := rs.client.Del(ctx, keys...).Result()
			if err != nil {
				rs.log.WithError(err).WithField("pattern", fullPattern).Warn("Cache delete failed during invalidation")
				return deleted
			}
			deleted += int(n)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	rs.log.WithFields(map[string]interface{}{
		"pattern": fullPattern,
		"deleted": deleted,
	}).Debug("Cache pattern invalidation completed")
	return deleted
}
