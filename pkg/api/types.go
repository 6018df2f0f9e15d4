package api

import "context"

// KeywordData is one validated keyword record from the provider's keyword
// ideas endpoint. Records missing required fields are rejected at the
// parsing boundary, never inside business logic.
type KeywordData struct {
	Keyword         string          `json:"keyword"`
	SearchVolume    int             `json:"search_volume"`
	Difficulty      int             `json:"keyword_difficulty"`
	CPC             float64         `json:"cpc"`
	Competition     float64         `json:"competition"`
	TrendPercentage float64         `json:"trend_percentage"`
	Intent          string          `json:"intent,omitempty"`
	RelatedKeywords []string        `json:"related_keywords,omitempty"`
	MonthlyVolumes  []MonthlyVolume `json:"monthly_volumes,omitempty"`
}

// MonthlyVolume is one point of a keyword's historical volume series.
type MonthlyVolume struct {
	Month  string `json:"month"`
	Volume int    `json:"volume"`
}

// TrendSeries is one subtopic's interest-over-time payload.
type TrendSeries struct {
	Subtopic       string        `json:"subtopic"`
	Timeline       []TrendPoint  `json:"timeline"`
	RelatedQueries []string      `json:"related_queries,omitempty"`
	Demographics   *Demographics `json:"demographics,omitempty"`
}

// TrendPoint is one sample of an interest timeline.
type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Demographics is the optional audience breakdown attached to a trend
// series. Percentages should sum to roughly 100 within each group.
type Demographics struct {
	AgeGroups map[string]float64 `json:"age_groups,omitempty"`
	Gender    map[string]float64 `json:"gender,omitempty"`
}

// Suggestion is one related/trending subtopic returned by the provider.
type Suggestion struct {
	Subtopic string  `json:"subtopic"`
	Growth   float64 `json:"growth"`
	Volume   int     `json:"volume"`
}

// Client is the upstream research provider boundary. Implementations return
// typed *Error values for every failure mode in the taxonomy.
type Client interface {
	KeywordIdeas(ctx context.Context, seeds []string) ([]KeywordData, error)
	TrendData(ctx context.Context, subtopics []string, location, timeRange string) ([]TrendSeries, error)
	RelatedSubtopics(ctx context.Context, subtopics []string, location string) ([]Suggestion, error)
}
