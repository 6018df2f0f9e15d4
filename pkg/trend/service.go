package trend

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kotechile/trend-analisys-sub006/pkg/api"
	"github.com/kotechile/trend-analisys-sub006/pkg/cache"
	"github.com/kotechile/trend-analisys-sub006/pkg/logger"
)

const (
	trendOperation      = "trend_data"
	suggestionOperation = "trend_suggestions"

	// fallbackSuffix marks the non-expiring copy kept for degraded serving.
	fallbackSuffix = ":stale"

	defaultTTL         = 6 * time.Hour
	maxSuggestionLimit = 100
)

// Service resolves trend research requests cache-first, resilient upstream
// second, stale cache last.
type Service struct {
	client api.Client
	store  cache.Store
	ttl    time.Duration
	log    *logger.Logger
}

func NewService(client api.Client, store cache.Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{
		client: client,
		store:  store,
		ttl:    ttl,
		log:    logger.GetLogger().WithField("component", "trend_service"),
	}
}

// GetTrendData returns interest-over-time records for the given subtopics.
// Subtopics whose provider payload lacks a usable timeline are dropped
// silently; partial results are acceptable here.
func (s *Service) GetTrendData(ctx context.Context, subtopics []string, location, timeRange string) (*Result, error) {
	if err := validateSubtopics(subtopics); err != nil {
		return nil, err
	}
	if timeRange == "" {
		timeRange = defaultTimeRange
	}
	if err := validateTimeRange(timeRange); err != nil {
		return nil, err
	}

	key := cache.GenerateKey(trendOperation, map[string]string{
		"subtopics":  canonicalList(subtopics),
		"location":   strings.ToLower(location),
		"time_range": timeRange,
	})

	if records, ok := s.readCachedTrends(ctx, key); ok {
		s.log.WithField("key", key).Debug("Trend cache hit")
		return &Result{Trends: records, FromCache: true}, nil
	}

	raw, err := s.client.TrendData(ctx, subtopics, location, timeRange)
	if err != nil {
		return s.trendFallback(ctx, key, err)
	}

	records := s.processSeries(raw, location, timeRange)
	s.writeBack(ctx, key, records)

	return &Result{Trends: records}, nil
}

// GetSuggestions returns related/trending subtopics ranked by provider
// growth and volume signals, capped at maxSuggestions.
func (s *Service) GetSuggestions(ctx context.Context, baseSubtopics []string, location string, maxSuggestions int) (*SuggestionsResult, error) {
	if err := validateSubtopics(baseSubtopics); err != nil {
		return nil, err
	}
	if maxSuggestions < 1 || maxSuggestions > maxSuggestionLimit {
		return nil, api.NewError(api.KindValidationError,
			fmt.Sprintf("max_suggestions must be in [1,%d], got %d", maxSuggestionLimit, maxSuggestions))
	}

	key := cache.GenerateKey(suggestionOperation, map[string]string{
		"subtopics": canonicalList(baseSubtopics),
		"location":  strings.ToLower(location),
		"max":       strconv.Itoa(maxSuggestions),
	})

	if suggestions, ok := s.readCachedSuggestions(ctx, key); ok {
		s.log.WithField("key", key).Debug("Suggestion cache hit")
		return &SuggestionsResult{Suggestions: suggestions, FromCache: true}, nil
	}

	raw, err := s.client.RelatedSubtopics(ctx, baseSubtopics, location)
	if err != nil {
		return s.suggestionFallback(ctx, key, err)
	}

	suggestions := rankSuggestions(raw, maxSuggestions)

	if payload, err := json.Marshal(suggestions); err == nil {
		s.store.Set(ctx, key, payload, s.ttl)
		s.store.Set(ctx, key+fallbackSuffix, payload, 0)
	}

	return &SuggestionsResult{Suggestions: suggestions}, nil
}

// processSeries converts raw provider series into immutable records,
// recomputing the aggregates from the timeline rather than trusting
// provider-supplied values.
func (s *Service) processSeries(raw []api.TrendSeries, location, timeRange string) []Record {
	records := make([]Record, 0, len(raw))
	for _, series := range raw {
		if series.Subtopic == "" || len(series.Timeline) == 0 {
			continue
		}

		timeline := make([]TimelinePoint, 0, len(series.Timeline))
		for _, point := range series.Timeline {
			timeline = append(timeline, TimelinePoint{Date: point.Date, Value: point.Value})
		}
		sort.SliceStable(timeline, func(i, j int) bool {
			return timeline[i].Date < timeline[j].Date
		})

		var sum, peak float64
		for _, point := range timeline {
			sum += point.Value
			if point.Value > peak {
				peak = point.Value
			}
		}

		record := Record{
			Subtopic:        series.Subtopic,
			Location:        location,
			TimeRange:       timeRange,
			AverageInterest: sum / float64(len(timeline)),
			PeakInterest:    peak,
			TimelineData:    timeline,
			RelatedQueries:  series.RelatedQueries,
		}
		if series.Demographics != nil {
			record.DemographicData = &DemographicData{
				AgeGroups: series.Demographics.AgeGroups,
				Gender:    series.Demographics.Gender,
			}
		}
		records = append(records, record)
	}
	return records
}

// rankSuggestions orders by growth descending, then volume, then subtopic
// text for determinism, and truncates to the cap.
func rankSuggestions(raw []api.Suggestion, maxSuggestions int) []Suggestion {
	suggestions := make([]Suggestion, 0, len(raw))
	for _, item := range raw {
		if item.Subtopic == "" {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Subtopic: item.Subtopic,
			Growth:   item.Growth,
			Volume:   item.Volume,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Growth != suggestions[j].Growth {
			return suggestions[i].Growth > suggestions[j].Growth
		}
		if suggestions[i].Volume != suggestions[j].Volume {
			return suggestions[i].Volume > suggestions[j].Volume
		}
		return suggestions[i].Subtopic < suggestions[j].Subtopic
	})

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

func (s *Service) trendFallback(ctx context.Context, key string, upstreamErr error) (*Result, error) {
	kind := api.KindOf(upstreamErr)
	if kind == api.KindValidationError || kind == api.KindInvalidAPIKey {
		return nil, upstreamErr
	}

	records, ok := s.readCachedTrends(ctx, key+fallbackSuffix)
	if !ok {
		return nil, upstreamErr
	}

	s.log.WithFields(map[string]interface{}{
		"key":  key,
		"kind": string(kind),
	}).Warn("Serving stale trend cache due to upstream failure")

	return &Result{
		Trends:         records,
		FromCache:      true,
		Degraded:       true,
		DegradedReason: kind,
	}, nil
}

func (s *Service) suggestionFallback(ctx context.Context, key string, upstreamErr error) (*SuggestionsResult, error) {
	kind := api.KindOf(upstreamErr)
	if kind == api.KindValidationError || kind == api.KindInvalidAPIKey {
		return nil, upstreamErr
	}

	suggestions, ok := s.readCachedSuggestions(ctx, key+fallbackSuffix)
	if !ok {
		return nil, upstreamErr
	}

	return &SuggestionsResult{
		Suggestions:    suggestions,
		FromCache:      true,
		Degraded:       true,
		DegradedReason: kind,
	}, nil
}

func (s *Service) readCachedTrends(ctx context.Context, key string) ([]Record, bool) {
	payload, ok := s.store.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var records []Record
	if err := json.Unmarshal(payload, &records); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("Dropping corrupt trend cache entry")
		s.store.Delete(ctx, key)
		return nil, false
	}
	return records, true
}

func (s *Service) readCachedSuggestions(ctx context.Context, key string) ([]Suggestion, bool) {
	payload, ok := s.store.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var suggestions []Suggestion
	if err := json.Unmarshal(payload, &suggestions); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("Dropping corrupt suggestion cache entry")
		s.store.Delete(ctx, key)
		return nil, false
	}
	return suggestions, true
}

func (s *Service) writeBack(ctx context.Context, key string, records []Record) {
	payload, err := json.Marshal(records)
	if err != nil {
		s.log.WithError(err).Warn("Failed to serialize trend records for cache")
		return
	}
	s.store.Set(ctx, key, payload, s.ttl)
	s.store.Set(ctx, key+fallbackSuffix, payload, 0)
}

// canonicalList lower-cases, sorts, and joins a term list so cache keys are
// order-insensitive.
func canonicalList(terms []string) string {
	normalized := make([]string, len(terms))
	for i, term := range terms {
		normalized[i] = strings.ToLower(strings.TrimSpace(term))
	}
	sort.Strings(normalized)
	return strings.Join(normalized, ",")
}
