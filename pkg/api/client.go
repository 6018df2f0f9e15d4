package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/kotechile/trend-analisys-sub006/pkg/logger"
)

const (
	keywordIdeasPath     = "/v3/dataforseo_labs/google/keyword_ideas/live"
	trendExplorePath     = "/v3/keywords_data/google_trends/explore/live"
	relatedTopicsPath    = "/v3/dataforseo_labs/google/keyword_suggestions/live"
	defaultClientTimeout = 15 * time.Second
)

// ClientConfig configures the HTTP provider client.
type ClientConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Login    string        `mapstructure:"login"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// httpClient talks to the research provider over fasthttp. All failure
// modes are mapped to typed errors at this boundary.
type httpClient struct {
	baseURL    string
	authHeader string
	timeout    time.Duration
	client     *fasthttp.Client
	log        *logger.Logger

	// Metrics
	totalRequests  uint64
	failedRequests uint64
	totalLatency   uint64
}

// NewHTTPClient creates a provider client with basic-auth credentials.
func NewHTTPClient(cfg ClientConfig) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(cfg.Login + ":" + cfg.Password))

	return &httpClient{
		baseURL:    cfg.BaseURL,
		authHeader: "Basic " + credentials,
		timeout:    timeout,
		client: &fasthttp.Client{
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: 10 * time.Minute,
		},
		log: logger.GetLogger().WithFields(map[string]interface{}{
			"component": "provider_client",
			"account":   logger.MaskCredential(cfg.Login),
		}),
	}
}

func (c *httpClient) KeywordIdeas(ctx context.Context, seeds []string) ([]KeywordData, error) {
	payload := []map[string]interface{}{{"keywords": seeds}}
	body, err := c.post(ctx, keywordIdeasPath, payload)
	if err != nil {
		return nil, err
	}
	return parseKeywordResponse(body)
}

func (c *httpClient) TrendData(ctx context.Context, subtopics []string, location, timeRange string) ([]TrendSeries, error) {
	payload := []map[string]interface{}{{
		"keywords":      subtopics,
		"location_name": location,
		"time_range":    timeRange,
	}}
	body, err := c.post(ctx, trendExplorePath, payload)
	if err != nil {
		return nil, err
	}
	return parseTrendResponse(body)
}

func (c *httpClient) RelatedSubtopics(ctx context.Context, subtopics []string, location string) ([]Suggestion, error) {
	payload := []map[string]interface{}{{
		"keywords":      subtopics,
		"location_name": location,
	}}
	body, err := c.post(ctx, relatedTopicsPath, payload)
	if err != nil {
		return nil, err
	}
	return parseSuggestionResponse(body)
}

// post sends one provider task request and maps transport/status failures
// to the error taxonomy.
func (c *httpClient) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	atomic.AddUint64(&c.totalRequests, 1)
	start := time.Now()
	defer func() {
		atomic.AddUint64(&c.totalLatency, uint64(time.Since(start).Milliseconds()))
	}()

	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, WrapError(KindValidationError, "failed to encode request payload", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", c.authHeader)
	req.SetBody(requestBody)

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		atomic.AddUint64(&c.failedRequests, 1)
		if err == fasthttp.ErrTimeout || ctx.Err() == context.DeadlineExceeded {
			return nil, WrapError(KindRequestTimeout, "provider did not respond in time", err)
		}
		return nil, WrapError(KindAPIUnavailable, "provider unreachable", err)
	}

	if err := c.checkStatus(resp); err != nil {
		atomic.AddUint64(&c.failedRequests, 1)
		return nil, err
	}

	// Body is reused by fasthttp after release; copy it out.
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())

	c.log.WithFields(map[string]interface{}{
		"path":        path,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Provider request completed")

	return body, nil
}

// checkStatus translates HTTP status codes into typed errors, forwarding
// retry-after and quota hints when the provider supplies them.
func (c *httpClient) checkStatus(resp *fasthttp.Response) error {
	status := resp.StatusCode()
	switch {
	case status == fasthttp.StatusOK:
		return nil
	case status == fasthttp.StatusUnauthorized || status == fasthttp.StatusForbidden:
		return NewError(KindInvalidAPIKey, "provider rejected credentials")
	case status == fasthttp.StatusTooManyRequests:
		apiErr := NewError(KindRateLimitExceeded, "provider rate limit exceeded")
		if retryAfter := string(resp.Header.Peek("Retry-After")); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil {
				apiErr.RetryAfter = time.Duration(seconds) * time.Second
			}
		}
		if remaining := string(resp.Header.Peek("X-RateLimit-Remaining")); remaining != "" {
			if quota, err := strconv.Atoi(remaining); err == nil {
				apiErr.QuotaRemaining = &quota
			}
		}
		return apiErr
	case status >= 500:
		return NewError(KindAPIUnavailable, fmt.Sprintf("provider returned status %d", status))
	default:
		return NewError(KindInvalidResponseFormat, fmt.Sprintf("unexpected provider status %d", status))
	}
}
