package trend

import (
	"fmt"

	"github.com/kotechile/trend-analisys-sub006/pkg/api"
)

// TimelinePoint is one dated sample of a subtopic's interest.
type TimelinePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// DemographicData is the optional audience breakdown; percentages should
// sum to roughly 100 within each group.
type DemographicData struct {
	AgeGroups map[string]float64 `json:"age_groups,omitempty"`
	Gender    map[string]float64 `json:"gender,omitempty"`
}

// Record is one subtopic's interest-over-time series. AverageInterest and
// PeakInterest are always recomputed from the timeline, never taken from
// the provider. Records are immutable after creation.
type Record struct {
	Subtopic        string           `json:"subtopic"`
	Location        string           `json:"location"`
	TimeRange       string           `json:"time_range"`
	AverageInterest float64          `json:"average_interest"`
	PeakInterest    float64          `json:"peak_interest"`
	TimelineData    []TimelinePoint  `json:"timeline_data"`
	RelatedQueries  []string         `json:"related_queries,omitempty"`
	DemographicData *DemographicData `json:"demographic_data,omitempty"`
}

// Suggestion is one related subtopic ranked by growth and volume signals.
type Suggestion struct {
	Subtopic string  `json:"subtopic"`
	Growth   float64 `json:"growth"`
	Volume   int     `json:"volume"`
}

// Result is the outcome of a GetTrendData request.
type Result struct {
	Trends         []Record      `json:"trends"`
	FromCache      bool          `json:"from_cache"`
	Degraded       bool          `json:"served_from_cache_due_to_failure"`
	DegradedReason api.ErrorKind `json:"degraded_reason,omitempty"`
}

// SuggestionsResult is the outcome of a GetSuggestions request.
type SuggestionsResult struct {
	Suggestions    []Suggestion  `json:"suggestions"`
	FromCache      bool          `json:"from_cache"`
	Degraded       bool          `json:"served_from_cache_due_to_failure"`
	DegradedReason api.ErrorKind `json:"degraded_reason,omitempty"`
}

// validTimeRanges are the provider's accepted window tokens.
var validTimeRanges = map[string]bool{
	"1m": true, "3m": true, "12m": true, "5y": true,
}

const defaultTimeRange = "12m"

func validateSubtopics(subtopics []string) error {
	if len(subtopics) == 0 {
		return api.NewError(api.KindValidationError, "subtopics must not be empty")
	}
	for _, subtopic := range subtopics {
		if subtopic == "" {
			return api.NewError(api.KindValidationError, "subtopics must be non-empty strings")
		}
	}
	return nil
}

func validateTimeRange(timeRange string) error {
	if !validTimeRanges[timeRange] {
		return api.NewError(api.KindValidationError,
			fmt.Sprintf("unknown time range %q", timeRange))
	}
	return nil
}
