package trend

import (
	"context"
	"testing"
	"time"

	"github.com/kotechile/trend-analisys-sub006/pkg/api"
	"github.com/kotechile/trend-analisys-sub006/pkg/cache"
)

type stubClient struct {
	trendCalls      int
	suggestionCalls int
	err             error
	series          []api.TrendSeries
	suggestions     []api.Suggestion
}

func (s *stubClient) KeywordIdeas(context.Context, []string) ([]api.KeywordData, error) {
	return nil, nil
}

func (s *stubClient) TrendData(context.Context, []string, string, string) ([]api.TrendSeries, error) {
	s.trendCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.series, nil
}

func (s *stubClient) RelatedSubtopics(context.Context, []string, string) ([]api.Suggestion, error) {
	s.suggestionCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.suggestions, nil
}

func TestGetTrendData_ComputesAggregatesFromTimeline(t *testing.T) {
	client := &stubClient{series: []api.TrendSeries{{
		Subtopic: "keto diet",
		Timeline: []api.TrendPoint{
			{Date: "2026-03-01", Value: 30},
			{Date: "2026-01-01", Value: 10},
			{Date: "2026-02-01", Value: 20},
		},
		RelatedQueries: []string{"keto recipes"},
	}}}
	svc := NewService(client, cache.NewMemoryStore(16), time.Hour)

	result, err := svc.GetTrendData(context.Background(), []string{"keto diet"}, "United States", "12m")
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if len(result.Trends) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(result.Trends))
	}

	record := result.Trends[0]
	if record.AverageInterest != 20 {
		t.Errorf("Average must be computed from the timeline, got %v", record.AverageInterest)
	}
	if record.PeakInterest != 30 {
		t.Errorf("Peak must be the timeline max, got %v", record.PeakInterest)
	}
	if record.PeakInterest < record.AverageInterest {
		t.Error("Invariant violated: peak >= average")
	}
	if record.TimelineData[0].Date != "2026-01-01" || record.TimelineData[2].Date != "2026-03-01" {
		t.Errorf("Timeline must be sorted ascending by date, got %+v", record.TimelineData)
	}
	if record.Location != "United States" || record.TimeRange != "12m" {
		t.Errorf("Record should carry its query context, got %+v", record)
	}
}

func TestGetTrendData_DropsSeriesWithoutTimeline(t *testing.T) {
	client := &stubClient{series: []api.TrendSeries{
		{Subtopic: "empty one"},
		{Subtopic: "good one", Timeline: []api.TrendPoint{{Date: "2026-01-01", Value: 5}}},
	}}
	svc := NewService(client, cache.NewMemoryStore(16), time.Hour)

	result, err := svc.GetTrendData(context.Background(), []string{"a", "b"}, "US", "3m")
	if err != nil {
		t.Fatalf("Partial results are acceptable, got error %v", err)
	}
	if len(result.Trends) != 1 || result.Trends[0].Subtopic != "good one" {
		t.Errorf("Series without a usable timeline must be dropped silently, got %+v", result.Trends)
	}
}

func TestGetTrendData_CacheHitBypassesUpstream(t *testing.T) {
	client := &stubClient{series: []api.TrendSeries{{
		Subtopic: "surfing",
		Timeline: []api.TrendPoint{{Date: "2026-01-01", Value: 42}},
	}}}
	svc := NewService(client, cache.NewMemoryStore(16), time.Hour)

	if _, err := svc.GetTrendData(context.Background(), []string{"surfing"}, "US", "12m"); err != nil {
		t.Fatalf("First call failed: %v", err)
	}
	result, err := svc.GetTrendData(context.Background(), []string{"surfing"}, "US", "12m")
	if err != nil {
		t.Fatalf("Second call failed: %v", err)
	}

	if client.trendCalls != 1 {
		t.Errorf("Cache hit must bypass upstream, got %d calls", client.trendCalls)
	}
	if !result.FromCache {
		t.Error("Second response should be marked as from cache")
	}
}

func TestGetTrendData_SubtopicOrderDoesNotChangeKey(t *testing.T) {
	client := &stubClient{series: []api.TrendSeries{{
		Subtopic: "a",
		Timeline: []api.TrendPoint{{Date: "2026-01-01", Value: 1}},
	}}}
	svc := NewService(client, cache.NewMemoryStore(16), time.Hour)

	if _, err := svc.GetTrendData(context.Background(), []string{"b", "a"}, "US", "12m"); err != nil {
		t.Fatalf("First call failed: %v", err)
	}
	if _, err := svc.GetTrendData(context.Background(), []string{"a", "b"}, "US", "12m"); err != nil {
		t.Fatalf("Second call failed: %v", err)
	}

	if client.trendCalls != 1 {
		t.Errorf("Reordered subtopics are the same logical request, got %d calls", client.trendCalls)
	}
}

func TestGetTrendData_FallbackServesStaleDegraded(t *testing.T) {
	client := &stubClient{series: []api.TrendSeries{{
		Subtopic: "cycling",
		Timeline: []api.TrendPoint{{Date: "2026-01-01", Value: 7}},
	}}}
	store := cache.NewMemoryStore(16)
	svc := NewService(client, store, time.Hour)

	if _, err := svc.GetTrendData(context.Background(), []string{"cycling"}, "US", "12m"); err != nil {
		t.Fatalf("Seeding call failed: %v", err)
	}

	key := cache.GenerateKey("trend_data", map[string]string{
		"subtopics": "cycling", "location": "us", "time_range": "12m",
	})
	store.Delete(context.Background(), key)
	client.err = api.NewError(api.KindCircuitBreakerOpen, "short-circuited")

	result, err := svc.GetTrendData(context.Background(), []string{"cycling"}, "US", "12m")
	if err != nil {
		t.Fatalf("Expected degraded fallback, got %v", err)
	}
	if !result.Degraded || result.DegradedReason != api.KindCircuitBreakerOpen {
		t.Errorf("Fallback must be marked degraded with its reason, got %+v", result)
	}
}

func TestGetTrendData_Validation(t *testing.T) {
	svc := NewService(&stubClient{}, cache.NewMemoryStore(16), time.Hour)

	if _, err := svc.GetTrendData(context.Background(), nil, "US", "12m"); !api.IsKind(err, api.KindValidationError) {
		t.Errorf("Empty subtopics must be rejected, got %v", err)
	}
	if _, err := svc.GetTrendData(context.Background(), []string{"a"}, "US", "99y"); !api.IsKind(err, api.KindValidationError) {
		t.Errorf("Unknown time range must be rejected, got %v", err)
	}
}

func TestGetSuggestions_RankedAndCapped(t *testing.T) {
	client := &stubClient{suggestions: []api.Suggestion{
		{Subtopic: "slow", Growth: 1, Volume: 100},
		{Subtopic: "fast", Growth: 50, Volume: 10},
		{Subtopic: "steady", Growth: 10, Volume: 500},
	}}
	svc := NewService(client, cache.NewMemoryStore(16), time.Hour)

	result, err := svc.GetSuggestions(context.Background(), []string{"fitness"}, "US", 2)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if len(result.Suggestions) != 2 {
		t.Fatalf("Expected cap at 2, got %d", len(result.Suggestions))
	}
	if result.Suggestions[0].Subtopic != "fast" || result.Suggestions[1].Subtopic != "steady" {
		t.Errorf("Expected growth-ranked order, got %+v", result.Suggestions)
	}
}

func TestGetSuggestions_Validation(t *testing.T) {
	svc := NewService(&stubClient{}, cache.NewMemoryStore(16), time.Hour)

	if _, err := svc.GetSuggestions(context.Background(), nil, "US", 5); !api.IsKind(err, api.KindValidationError) {
		t.Errorf("Empty base subtopics must be rejected, got %v", err)
	}
	if _, err := svc.GetSuggestions(context.Background(), []string{"a"}, "US", 0); !api.IsKind(err, api.KindValidationError) {
		t.Errorf("max_suggestions below 1 must be rejected, got %v", err)
	}
	if _, err := svc.GetSuggestions(context.Background(), []string{"a"}, "US", 101); !api.IsKind(err, api.KindValidationError) {
		t.Errorf("max_suggestions above the cap must be rejected, got %v", err)
	}
}
