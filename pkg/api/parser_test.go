package api

import (
	"testing"
)

func TestParseKeywordResponse_Valid(t *testing.T) {
	body := []byte(`{
		"status_code": 20000,
		"tasks": [{
			"status_code": 20000,
			"result": [{
				"keyword": "weight loss tips",
				"search_volume": 50000,
				"keyword_difficulty": 35,
				"cpc": 2.5,
				"competition": 0.6,
				"trend_percentage": 15.5,
				"search_intent": "COMMERCIAL",
				"monthly_searches": [{"month": "2026-01", "search_volume": 48000}]
			}]
		}]
	}`)

	records, err := parseKeywordResponse(body)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	record := records[0]
	if record.Keyword != "weight loss tips" || record.SearchVolume != 50000 ||
		record.Difficulty != 35 || record.CPC != 2.5 {
		t.Errorf("Record fields not mapped faithfully: %+v", record)
	}
	if len(record.MonthlyVolumes) != 1 || record.MonthlyVolumes[0].Volume != 48000 {
		t.Errorf("Monthly volumes not mapped: %+v", record.MonthlyVolumes)
	}
}

func TestParseKeywordResponse_DropsIncompleteRecords(t *testing.T) {
	body := []byte(`{
		"status_code": 20000,
		"tasks": [{
			"status_code": 20000,
			"result": [
				{"keyword": "", "search_volume": 10, "keyword_difficulty": 5, "cpc": 1.0},
				{"keyword": "no volume", "keyword_difficulty": 5, "cpc": 1.0},
				{"keyword": "complete", "search_volume": 10, "keyword_difficulty": 5, "cpc": 1.0}
			]
		}]
	}`)

	records, err := parseKeywordResponse(body)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if len(records) != 1 || records[0].Keyword != "complete" {
		t.Errorf("Expected only the complete record, got %+v", records)
	}
}

func TestParseKeywordResponse_MalformedBody(t *testing.T) {
	_, err := parseKeywordResponse([]byte(`{"unexpected": true`))
	if !IsKind(err, KindInvalidResponseFormat) {
		t.Errorf("Expected INVALID_RESPONSE_FORMAT, got %v", err)
	}
}

func TestParseKeywordResponse_EmptyBody(t *testing.T) {
	_, err := parseKeywordResponse(nil)
	if !IsKind(err, KindInvalidResponseFormat) {
		t.Errorf("Expected INVALID_RESPONSE_FORMAT for empty body, got %v", err)
	}
}

func TestParseKeywordResponse_ProviderErrorStatus(t *testing.T) {
	body := []byte(`{"status_code": 40501, "status_message": "invalid field", "tasks": []}`)

	_, err := parseKeywordResponse(body)
	if !IsKind(err, KindInvalidResponseFormat) {
		t.Errorf("Expected INVALID_RESPONSE_FORMAT for provider error status, got %v", err)
	}
}

func TestParseTrendResponse_DropsMissingSubtopic(t *testing.T) {
	body := []byte(`{
		"status_code": 20000,
		"tasks": [{
			"status_code": 20000,
			"result": [
				{"keyword": "", "timeline": [{"date": "2026-01-01", "value": 10}]},
				{"keyword": "running shoes", "timeline": [{"date": "2026-01-01", "value": 42}]}
			]
		}]
	}`)

	series, err := parseTrendResponse(body)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if len(series) != 1 || series[0].Subtopic != "running shoes" {
		t.Errorf("Expected only the resolvable subtopic, got %+v", series)
	}
}

func TestParseSuggestionResponse(t *testing.T) {
	body := []byte(`{
		"status_code": 20000,
		"tasks": [{
			"status_code": 20000,
			"result": [
				{"keyword": "trail running", "growth": 22.5, "search_volume": 9000},
				{"keyword": "barefoot shoes", "search_volume": 4000}
			]
		}]
	}`)

	suggestions, err := parseSuggestionResponse(body)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("Expected 2 suggestions, got %d", len(suggestions))
	}
	if suggestions[0].Growth != 22.5 || suggestions[1].Growth != 0 {
		t.Errorf("Growth mapping wrong: %+v", suggestions)
	}
}
