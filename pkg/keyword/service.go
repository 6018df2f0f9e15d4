package keyword

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kotechile/trend-analisys-sub006/pkg/api"
	"github.com/kotechile/trend-analisys-sub006/pkg/cache"
	"github.com/kotechile/trend-analisys-sub006/pkg/logger"
)

const (
	operationName = "keyword_ideas"

	// fallbackSuffix marks the non-expiring copy kept for degraded serving
	// when the upstream is down and the fresh entry has already expired.
	fallbackSuffix = ":stale"

	defaultTTL = 6 * time.Hour
)

// Service resolves keyword research requests cache-first, with the
// resilient upstream client second and stale-cache fallback last.
type Service struct {
	client api.Client
	store  cache.Store
	ttl    time.Duration
	log    *logger.Logger
}

// NewService wires a keyword research service from its injected
// collaborators. ttl bounds the freshness of cached result sets.
func NewService(client api.Client, store cache.Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{
		client: client,
		store:  store,
		ttl:    ttl,
		log:    logger.GetLogger().WithField("component", "keyword_service"),
	}
}

// GetKeywords returns a deduplicated, filtered, validated set of keyword
// records for the given query.
func (s *Service) GetKeywords(ctx context.Context, q Query) (*Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	key := cache.GenerateKey(operationName, q.cacheParams())

	if records, ok := s.readCached(ctx, key); ok {
		s.log.WithField("key", key).Debug("Keyword cache hit")
		return &Result{Keywords: records, FromCache: true}, nil
	}

	raw, err := s.client.KeywordIdeas(ctx, q.SeedKeywords)
	if err != nil {
		return s.fallback(ctx, key, err)
	}

	records := s.process(raw, q)
	s.writeBack(ctx, key, records)

	return &Result{Keywords: records}, nil
}

// fallback serves the stale cache copy, marked degraded, when the upstream
// failed after exhausting its resilience budget. Validation and credential
// failures are never masked by the cache.
func (s *Service) fallback(ctx context.Context, key string, upstreamErr error) (*Result, error) {
	kind := api.KindOf(upstreamErr)
	if kind == api.KindValidationError || kind == api.KindInvalidAPIKey {
		return nil, upstreamErr
	}

	records, ok := s.readCached(ctx, key+fallbackSuffix)
	if !ok {
		return nil, upstreamErr
	}

	s.log.WithFields(map[string]interface{}{
		"key":  key,
		"kind": string(kind),
	}).Warn("Serving stale cache due to upstream failure")

	return &Result{
		Keywords:       records,
		FromCache:      true,
		Degraded:       true,
		DegradedReason: kind,
	}, nil
}

// process converts raw provider records into validated, deduplicated,
// filtered domain records, truncated to the query's result cap.
func (s *Service) process(raw []api.KeywordData, q Query) []Record {
	allowed := make(map[IntentType]bool, len(q.IntentTypes))
	for _, intent := range q.IntentTypes {
		allowed[intent] = true
	}

	seen := make(map[string]bool, len(raw))
	records := make([]Record, 0, len(raw))

	for _, data := range raw {
		if data.Keyword == "" || data.SearchVolume < 0 {
			continue
		}
		if data.Difficulty < 0 || data.Difficulty > 100 {
			continue
		}

		canonical := normalizeKeyword(data.Keyword)
		if canonical == "" || seen[canonical] {
			continue
		}
		seen[canonical] = true

		record := Record{
			Keyword:           data.Keyword,
			SearchVolume:      data.SearchVolume,
			KeywordDifficulty: data.Difficulty,
			CPC:               data.CPC,
			CompetitionValue:  data.Competition,
			TrendPercentage:   data.TrendPercentage,
			IntentType:        parseIntent(data.Intent, data.Keyword),
			RelatedKeywords:   data.RelatedKeywords,
		}
		for _, m := range data.MonthlyVolumes {
			record.SearchVolumeTrend = append(record.SearchVolumeTrend, VolumePoint{
				Month:  m.Month,
				Volume: m.Volume,
			})
		}

		if record.KeywordDifficulty > q.MaxDifficulty {
			continue
		}
		if record.SearchVolume < q.MinVolume {
			continue
		}
		if len(allowed) > 0 && !allowed[record.IntentType] {
			continue
		}

		records = append(records, record)
		if len(records) == q.MaxResults {
			break
		}
	}

	return records
}

func (s *Service) readCached(ctx context.Context, key string) ([]Record, bool) {
	payload, ok := s.store.Get(ctx, key)
	if !ok {
		return nil, false
	}

	var records []Record
	if err := json.Unmarshal(payload, &records); err != nil {
		// Corrupt payloads are treated as misses.
		s.log.WithError(err).WithField("key", key).Warn("Dropping corrupt cache entry")
		s.store.Delete(ctx, key)
		return nil, false
	}
	return records, true
}

// writeBack stores the fresh result under its TTL-bounded key plus a
// non-expiring fallback copy for degraded serving.
func (s *Service) writeBack(ctx context.Context, key string, records []Record) {
	payload, err := json.Marshal(records)
	if err != nil {
		s.log.WithError(err).Warn("Failed to serialize keyword records for cache")
		return
	}
	s.store.Set(ctx, key, payload, s.ttl)
	s.store.Set(ctx, key+fallbackSuffix, payload, 0)
}

// cacheParams canonicalizes every query parameter so that the derived key
// is insensitive to seed or intent ordering.
func (q Query) cacheParams() map[string]string {
	seeds := make([]string, len(q.SeedKeywords))
	for i, seed := range q.SeedKeywords {
		seeds[i] = normalizeKeyword(seed)
	}
	sort.Strings(seeds)

	intents := make([]string, len(q.IntentTypes))
	for i, intent := range q.IntentTypes {
		intents[i] = string(intent)
	}
	sort.Strings(intents)

	return map[string]string{
		"seeds":          strings.Join(seeds, ","),
		"max_difficulty": strconv.Itoa(q.MaxDifficulty),
		"min_volume":     strconv.Itoa(q.MinVolume),
		"intents":        strings.Join(intents, ","),
		"max_results":    strconv.Itoa(q.MaxResults),
	}
}
