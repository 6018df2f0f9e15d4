package api

import (
	"encoding/json"
	"fmt"
)

// providerEnvelope is the outer task envelope every provider endpoint
// shares. Per-endpoint result shapes are decoded from the raw task results.
type providerEnvelope struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Tasks         []struct {
		StatusCode int               `json:"status_code"`
		Result     []json.RawMessage `json:"result"`
	} `json:"tasks"`
}

// providerOK is the provider's task-level success code.
const providerOK = 20000

type rawKeyword struct {
	Keyword         string   `json:"keyword"`
	SearchVolume    *int     `json:"search_volume"`
	Difficulty      *int     `json:"keyword_difficulty"`
	CPC             *float64 `json:"cpc"`
	Competition     float64  `json:"competition"`
	TrendPercentage float64  `json:"trend_percentage"`
	Intent          string   `json:"search_intent"`
	RelatedKeywords []string `json:"related_keywords"`
	MonthlySearches []struct {
		Month        string `json:"month"`
		SearchVolume int    `json:"search_volume"`
	} `json:"monthly_searches"`
}

// unwrapResults validates the envelope and collects successful task results.
func unwrapResults(body []byte) ([]json.RawMessage, error) {
	if len(body) == 0 {
		return nil, NewError(KindInvalidResponseFormat, "empty response body from provider")
	}

	var envelope providerEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, WrapError(KindInvalidResponseFormat, "failed to decode provider response", err)
	}

	if envelope.StatusCode != providerOK {
		return nil, NewError(KindInvalidResponseFormat,
			fmt.Sprintf("provider returned status %d: %s", envelope.StatusCode, envelope.StatusMessage))
	}

	var results []json.RawMessage
	for _, task := range envelope.Tasks {
		if task.StatusCode != providerOK {
			continue
		}
		results = append(results, task.Result...)
	}
	return results, nil
}

// parseKeywordResponse converts a keyword-ideas payload into validated
// records. Entries with empty keyword text or missing required numeric
// fields are dropped; an unrecognizable payload is an error.
func parseKeywordResponse(body []byte) ([]KeywordData, error) {
	results, err := unwrapResults(body)
	if err != nil {
		return nil, err
	}

	records := make([]KeywordData, 0, len(results))
	for _, result := range results {
		var raw rawKeyword
		if err := json.Unmarshal(result, &raw); err != nil {
			return nil, WrapError(KindInvalidResponseFormat, "unrecognizable keyword record", err)
		}

		// Required fields must be present, not defaulted.
		if raw.Keyword == "" || raw.SearchVolume == nil || raw.Difficulty == nil || raw.CPC == nil {
			continue
		}

		records = append(records, KeywordData{
			Keyword:         raw.Keyword,
			SearchVolume:    *raw.SearchVolume,
			Difficulty:      *raw.Difficulty,
			CPC:             *raw.CPC,
			Competition:     raw.Competition,
			TrendPercentage: raw.TrendPercentage,
			Intent:          raw.Intent,
			RelatedKeywords: raw.RelatedKeywords,
			MonthlyVolumes:  convertMonthlySearches(raw),
		})
	}
	return records, nil
}

func convertMonthlySearches(raw rawKeyword) []MonthlyVolume {
	if len(raw.MonthlySearches) == 0 {
		return nil
	}
	volumes := make([]MonthlyVolume, 0, len(raw.MonthlySearches))
	for _, m := range raw.MonthlySearches {
		volumes = append(volumes, MonthlyVolume{Month: m.Month, Volume: m.SearchVolume})
	}
	return volumes
}

type rawTrend struct {
	Keyword  string `json:"keyword"`
	Timeline []struct {
		Date  string  `json:"date"`
		Value float64 `json:"value"`
	} `json:"timeline"`
	RelatedQueries []string `json:"related_queries"`
	Demographics   *struct {
		AgeGroups map[string]float64 `json:"age_groups"`
		Gender    map[string]float64 `json:"gender"`
	} `json:"demographics"`
}

// parseTrendResponse converts a trends payload into series records. Entries
// without a resolvable subtopic identifier are dropped, not retried.
func parseTrendResponse(body []byte) ([]TrendSeries, error) {
	results, err := unwrapResults(body)
	if err != nil {
		return nil, err
	}

	series := make([]TrendSeries, 0, len(results))
	for _, result := range results {
		var raw rawTrend
		if err := json.Unmarshal(result, &raw); err != nil {
			return nil, WrapError(KindInvalidResponseFormat, "unrecognizable trend record", err)
		}
		if raw.Keyword == "" {
			continue
		}

		entry := TrendSeries{
			Subtopic:       raw.Keyword,
			RelatedQueries: raw.RelatedQueries,
		}
		for _, point := range raw.Timeline {
			entry.Timeline = append(entry.Timeline, TrendPoint{Date: point.Date, Value: point.Value})
		}
		if raw.Demographics != nil {
			entry.Demographics = &Demographics{
				AgeGroups: raw.Demographics.AgeGroups,
				Gender:    raw.Demographics.Gender,
			}
		}
		series = append(series, entry)
	}
	return series, nil
}

type rawSuggestion struct {
	Keyword      string   `json:"keyword"`
	Growth       *float64 `json:"growth"`
	SearchVolume int      `json:"search_volume"`
}

func parseSuggestionResponse(body []byte) ([]Suggestion, error) {
	results, err := unwrapResults(body)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, len(results))
	for _, result := range results {
		var raw rawSuggestion
		if err := json.Unmarshal(result, &raw); err != nil {
			return nil, WrapError(KindInvalidResponseFormat, "unrecognizable suggestion record", err)
		}
		if raw.Keyword == "" {
			continue
		}
		entry := Suggestion{Subtopic: raw.Keyword, Volume: raw.SearchVolume}
		if raw.Growth != nil {
			entry.Growth = *raw.Growth
		}
		suggestions = append(suggestions, entry)
	}
	return suggestions, nil
}
