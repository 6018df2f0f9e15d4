package cache

import (
	"context"
	"time"
)

// KeyPrefix namespaces every cache key under the research provider so that
// pattern invalidation cannot touch keys owned by other subsystems.
const KeyPrefix = "dataforseo"

// Store is the key-value cache shared by the keyword and trend services.
// Implementations degrade to safe misses and no-ops on store failure; callers
// never receive an error from a cache round-trip.
type Store interface {
	// Get returns the cached payload, or ok=false on miss, expiry, store
	// failure, or a corrupt payload.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set writes the payload under key with the given TTL (zero = no expiry).
	// Returns false on store failure, logged as a warning.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool

	// Delete removes key. Idempotent; false if absent or store unavailable.
	Delete(ctx context.Context, key string) bool

	// InvalidatePattern deletes all keys matching "<prefix>:<pattern>" and
	// returns the number deleted (0 when none match).
	InvalidatePattern(ctx context.Context, pattern string) int
}

type Config struct {
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	DefaultTTL    time.Duration `mapstructure:"default_ttl"`
	MaxEntries    int           `mapstructure:"max_entries"`
}
