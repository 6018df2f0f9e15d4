package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kotechile/trend-analisys-sub006/pkg/api"
	"github.com/kotechile/trend-analisys-sub006/pkg/keyword"
	"github.com/kotechile/trend-analisys-sub006/pkg/trend"
)

type stubKeywordService struct {
	result *keyword.Result
	err    error
}

func (s *stubKeywordService) GetKeywords(ctx context.Context, q keyword.Query) (*keyword.Result, error) {
	return s.result, s.err
}

type stubTrendService struct {
	result      *trend.Result
	suggestions *trend.SuggestionsResult
	err         error
}

func (s *stubTrendService) GetTrendData(ctx context.Context, subtopics []string, location, timeRange string) (*trend.Result, error) {
	return s.result, s.err
}

func (s *stubTrendService) GetSuggestions(ctx context.Context, baseSubtopics []string, location string, maxSuggestions int) (*trend.SuggestionsResult, error) {
	return s.suggestions, s.err
}

func newTestApp(keywords *stubKeywordService, trends *stubTrendService) *fiber.App {
	app := fiber.New()
	NewController(keywords, trends).Register(app)
	return app
}

func TestRateLimitResponseForwardsZeroQuota(t *testing.T) {
	zero := 0
	rateLimitErr := api.NewError(api.KindRateLimitExceeded, "provider rate limit exceeded")
	rateLimitErr.RetryAfter = 30 * time.Second
	rateLimitErr.QuotaRemaining = &zero

	app := newTestApp(&stubKeywordService{err: rateLimitErr}, &stubTrendService{})

	req := httptest.NewRequest("POST", "/api/v1/keywords/research", strings.NewReader(`{"seed_keywords":["go testing"]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Errorf("Expected 429, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Retry-After"); got != "30" {
		t.Errorf("Expected Retry-After 30, got %q", got)
	}

	var body struct {
		Error struct {
			Kind              string `json:"kind"`
			RetryAfterSeconds int    `json:"retry_after_seconds"`
			QuotaRemaining    *int   `json:"quota_remaining"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Error.Kind != string(api.KindRateLimitExceeded) {
		t.Errorf("Expected kind %s, got %s", api.KindRateLimitExceeded, body.Error.Kind)
	}
	if body.Error.RetryAfterSeconds != 30 {
		t.Errorf("Expected retry_after_seconds 30, got %d", body.Error.RetryAfterSeconds)
	}
	if body.Error.QuotaRemaining == nil {
		t.Fatal("A reported zero quota should appear in the response")
	}
	if *body.Error.QuotaRemaining != 0 {
		t.Errorf("Expected quota_remaining 0, got %d", *body.Error.QuotaRemaining)
	}
}

func TestRateLimitResponseOmitsUnknownQuota(t *testing.T) {
	app := newTestApp(&stubKeywordService{err: api.NewError(api.KindRateLimitExceeded, "provider rate limit exceeded")}, &stubTrendService{})

	req := httptest.NewRequest("POST", "/api/v1/keywords/research", strings.NewReader(`{"seed_keywords":["go testing"]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Error map[string]interface{} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if _, present := body.Error["quota_remaining"]; present {
		t.Error("quota_remaining should be omitted when the provider sent no hint")
	}
}

func TestValidationErrorMapsToBadRequest(t *testing.T) {
	app := newTestApp(&stubKeywordService{err: api.NewError(api.KindValidationError, "seed keywords required")}, &stubTrendService{})

	req := httptest.NewRequest("POST", "/api/v1/keywords/research", strings.NewReader(`{"seed_keywords":[]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected 400, got %d", resp.StatusCode)
	}
}
