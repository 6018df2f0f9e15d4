package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kotechile/trend-analisys-sub006/pkg/logger"
)

// ResilienceConfig tunes the retry and circuit-breaker behavior around the
// provider client.
type ResilienceConfig struct {
	MaxRetries       int           `mapstructure:"max_retries"`
	RetryDelay       time.Duration `mapstructure:"retry_delay"`
	BreakerThreshold int           `mapstructure:"breaker_threshold"`
	BreakerCooldown  time.Duration `mapstructure:"breaker_cooldown"`
	MaxConcurrent    int           `mapstructure:"max_concurrent"`
}

// DefaultResilienceConfig mirrors the provider's documented limits.
func DefaultResilienceConfig() ResilienceConfig {
	return ResilienceConfig{
		MaxRetries:       3,
		RetryDelay:       1 * time.Second,
		BreakerThreshold: 5,
		BreakerCooldown:  30 * time.Second,
		MaxConcurrent:    10,
	}
}

// ResilientClient decorates a Client with retry, per-operation circuit
// breaking, and a concurrency cap. Cache fallback stays with the services,
// which own the cache handle for the logical request.
type ResilientClient struct {
	upstream Client
	retry    *Retry
	limiter  *ConcurrencyLimiter
	cfg      ResilienceConfig
	log      *logger.Logger

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

func NewResilientClient(upstream Client, cfg ResilienceConfig) *ResilientClient {
	if cfg.BreakerThreshold <= 0 {
		cfg.BreakerThreshold = DefaultResilienceConfig().BreakerThreshold
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = DefaultResilienceConfig().BreakerCooldown
	}

	return &ResilientClient{
		upstream: upstream,
		retry:    NewRetry(cfg.MaxRetries, cfg.RetryDelay),
		limiter:  NewConcurrencyLimiter(cfg.MaxConcurrent, 5*time.Second),
		cfg:      cfg,
		breakers: make(map[string]*CircuitBreaker),
		log:      logger.GetLogger().WithField("component", "resilient_client"),
	}
}

func (rc *ResilientClient) KeywordIdeas(ctx context.Context, seeds []string) ([]KeywordData, error) {
	var result []KeywordData
	err := rc.do(ctx, "keyword_ideas", func() error {
		records, err := rc.upstream.KeywordIdeas(ctx, seeds)
		if err != nil {
			return err
		}
		result = records
		return nil
	})
	return result, err
}

func (rc *ResilientClient) TrendData(ctx context.Context, subtopics []string, location, timeRange string) ([]TrendSeries, error) {
	var result []TrendSeries
	err := rc.do(ctx, "trend_data", func() error {
		series, err := rc.upstream.TrendData(ctx, subtopics, location, timeRange)
		if err != nil {
			return err
		}
		result = series
		return nil
	})
	return result, err
}

func (rc *ResilientClient) RelatedSubtopics(ctx context.Context, subtopics []string, location string) ([]Suggestion, error) {
	var result []Suggestion
	err := rc.do(ctx, "related_subtopics", func() error {
		suggestions, err := rc.upstream.RelatedSubtopics(ctx, subtopics, location)
		if err != nil {
			return err
		}
		result = suggestions
		return nil
	})
	return result, err
}

// do runs one upstream operation under the operation's breaker, with the
// retry sequence counting as a single breaker outcome. A tripped breaker
// fails fast with CIRCUIT_BREAKER_OPEN and never touches the network.
func (rc *ResilientClient) do(ctx context.Context, operation string, fn func() error) error {
	if err := rc.limiter.Acquire(ctx); err != nil {
		return err
	}
	defer rc.limiter.Release()

	err := rc.breaker(operation).Execute(ctx, func() error {
		return rc.retry.Execute(ctx, fn)
	})
	if errors.Is(err, ErrCircuitOpen) {
		rc.log.WithField("operation", operation).Warn("Circuit breaker open, failing fast")
		return WrapError(KindCircuitBreakerOpen, "upstream short-circuited", err)
	}
	return err
}

// breaker returns the breaker for one upstream operation, creating it on
// first use.
func (rc *ResilientClient) breaker(operation string) *CircuitBreaker {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	cb, exists := rc.breakers[operation]
	if !exists {
		cb = NewCircuitBreaker(rc.cfg.BreakerThreshold, rc.cfg.BreakerCooldown)
		rc.breakers[operation] = cb
	}
	return cb
}

// BreakerState exposes the current state for one operation, for health
// reporting.
func (rc *ResilientClient) BreakerState(operation string) CircuitState {
	return rc.breaker(operation).State()
}
