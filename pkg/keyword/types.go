package keyword

import (
	"fmt"

	"github.com/kotechile/trend-analisys-sub006/pkg/api"
)

// IntentType classifies a keyword's likely searcher intent.
type IntentType string

const (
	IntentInformational IntentType = "INFORMATIONAL"
	IntentCommercial    IntentType = "COMMERCIAL"
	IntentTransactional IntentType = "TRANSACTIONAL"
)

// ValidIntent reports whether t is one of the three known intent types.
func ValidIntent(t IntentType) bool {
	switch t {
	case IntentInformational, IntentCommercial, IntentTransactional:
		return true
	}
	return false
}

// VolumePoint is one month of a keyword's historical search volume.
type VolumePoint struct {
	Month  string `json:"month"`
	Volume int    `json:"volume"`
}

// Record is one researched keyword. PriorityScore and Rank are zero until
// the record passes through Prioritize.
type Record struct {
	Keyword           string        `json:"keyword"`
	SearchVolume      int           `json:"search_volume"`
	KeywordDifficulty int           `json:"keyword_difficulty"`
	CPC               float64       `json:"cpc"`
	CompetitionValue  float64       `json:"competition_value"`
	TrendPercentage   float64       `json:"trend_percentage"`
	IntentType        IntentType    `json:"intent_type"`
	RelatedKeywords   []string      `json:"related_keywords,omitempty"`
	SearchVolumeTrend []VolumePoint `json:"search_volume_trend,omitempty"`
	PriorityScore     float64       `json:"priority_score,omitempty"`
	Rank              int           `json:"rank,omitempty"`
}

// Query is the parameter bundle for GetKeywords.
type Query struct {
	SeedKeywords  []string     `json:"seed_keywords"`
	MaxDifficulty int          `json:"max_difficulty"`
	MinVolume     int          `json:"min_volume"`
	IntentTypes   []IntentType `json:"intent_types,omitempty"`
	MaxResults    int          `json:"max_results"`
}

// Validate checks the documented parameter constraints before any cache or
// upstream interaction.
func (q Query) Validate() error {
	if len(q.SeedKeywords) == 0 {
		return api.NewError(api.KindValidationError, "seed_keywords must not be empty")
	}
	for _, seed := range q.SeedKeywords {
		if seed == "" {
			return api.NewError(api.KindValidationError, "seed keywords must be non-empty strings")
		}
	}
	if q.MaxDifficulty < 0 || q.MaxDifficulty > 100 {
		return api.NewError(api.KindValidationError,
			fmt.Sprintf("max_difficulty must be in [0,100], got %d", q.MaxDifficulty))
	}
	if q.MinVolume < 0 {
		return api.NewError(api.KindValidationError,
			fmt.Sprintf("min_volume must be non-negative, got %d", q.MinVolume))
	}
	if q.MaxResults < 1 || q.MaxResults > 1000 {
		return api.NewError(api.KindValidationError,
			fmt.Sprintf("max_results must be in [1,1000], got %d", q.MaxResults))
	}
	for _, intent := range q.IntentTypes {
		if !ValidIntent(intent) {
			return api.NewError(api.KindValidationError,
				fmt.Sprintf("unknown intent type %q", intent))
		}
	}
	return nil
}

// Result is the outcome of one research request. Degraded marks a response
// served from cache because the upstream failed.
type Result struct {
	Keywords       []Record      `json:"keywords"`
	FromCache      bool          `json:"from_cache"`
	Degraded       bool          `json:"served_from_cache_due_to_failure"`
	DegradedReason api.ErrorKind `json:"degraded_reason,omitempty"`
}
