package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/kotechile/trend-analisys-sub006/internal/service"
	"github.com/kotechile/trend-analisys-sub006/pkg/api"
	"github.com/kotechile/trend-analisys-sub006/pkg/keyword"
	"github.com/kotechile/trend-analisys-sub006/pkg/logger"
)

// Controller exposes the research services over HTTP. It is the single
// place where error kinds are translated to HTTP statuses; the services
// stay free of transport concerns.
type Controller struct {
	keywords service.KeywordService
	trends   service.TrendService
	log      *logger.Logger
}

func NewController(keywords service.KeywordService, trends service.TrendService) *Controller {
	return &Controller{
		keywords: keywords,
		trends:   trends,
		log:      logger.GetLogger().WithField("component", "http_handler"),
	}
}

// Register mounts all routes on the fiber app.
func (c *Controller) Register(app *fiber.App) {
	app.Use(requestID)

	v1 := app.Group("/api/v1")
	v1.Post("/keywords/research", c.researchKeywords)
	v1.Post("/keywords/prioritize", c.prioritizeKeywords)
	v1.Post("/trends/research", c.researchTrends)
	v1.Post("/trends/suggestions", c.suggestTrends)

	app.Get("/health", c.health)
}

// requestID tags every request for log correlation.
func requestID(ctx *fiber.Ctx) error {
	id := ctx.Get("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	ctx.Locals("request_id", id)
	ctx.Set("X-Request-ID", id)
	return ctx.Next()
}

func (c *Controller) researchKeywords(ctx *fiber.Ctx) error {
	var query keyword.Query
	if err := ctx.BodyParser(&query); err != nil {
		return c.fail(ctx, api.WrapError(api.KindValidationError, "invalid request body", err))
	}

	result, err := c.keywords.GetKeywords(ctx.UserContext(), query)
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(result)
}

type prioritizeRequest struct {
	Keywords []keyword.Record `json:"keywords"`
	Weights  keyword.Weights  `json:"weights"`
}

func (c *Controller) prioritizeKeywords(ctx *fiber.Ctx) error {
	var req prioritizeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.fail(ctx, api.WrapError(api.KindValidationError, "invalid request body", err))
	}

	ranked, err := keyword.Prioritize(req.Keywords, req.Weights)
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{"keywords": ranked})
}

type trendRequest struct {
	Subtopics []string `json:"subtopics"`
	Location  string   `json:"location"`
	TimeRange string   `json:"time_range"`
}

func (c *Controller) researchTrends(ctx *fiber.Ctx) error {
	var req trendRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.fail(ctx, api.WrapError(api.KindValidationError, "invalid request body", err))
	}

	result, err := c.trends.GetTrendData(ctx.UserContext(), req.Subtopics, req.Location, req.TimeRange)
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(result)
}

type suggestionRequest struct {
	BaseSubtopics  []string `json:"base_subtopics"`
	Location       string   `json:"location"`
	MaxSuggestions int      `json:"max_suggestions"`
}

func (c *Controller) suggestTrends(ctx *fiber.Ctx) error {
	var req suggestionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.fail(ctx, api.WrapError(api.KindValidationError, "invalid request body", err))
	}

	result, err := c.trends.GetSuggestions(ctx.UserContext(), req.BaseSubtopics, req.Location, req.MaxSuggestions)
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(result)
}

func (c *Controller) health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "ok"})
}

// statusForKind is the single error-kind to HTTP-status translation.
// INVALID_API_KEY maps to 502 because it is the provider credential that
// was rejected, not the caller's.
func statusForKind(kind api.ErrorKind) int {
	switch kind {
	case api.KindValidationError:
		return fiber.StatusBadRequest
	case api.KindRateLimitExceeded:
		return fiber.StatusTooManyRequests
	case api.KindRequestTimeout:
		return fiber.StatusGatewayTimeout
	case api.KindCircuitBreakerOpen:
		return fiber.StatusServiceUnavailable
	case api.KindInvalidAPIKey, api.KindAPIUnavailable, api.KindInvalidResponseFormat:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func (c *Controller) fail(ctx *fiber.Ctx, err error) error {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		apiErr = api.WrapError(api.KindAPIUnavailable, "unexpected failure", err)
	}

	// Provider errors can echo request fragments; scrub them before logging.
	c.log.WithFields(logger.MaskFields(map[string]interface{}{
		"request_id": ctx.Locals("request_id"),
		"kind":       string(apiErr.Kind),
		"error":      logger.MaskMessage(err.Error()),
	})).Warn("Request failed")

	errBody := fiber.Map{
		"kind":    string(apiErr.Kind),
		"message": apiErr.Message,
	}
	if apiErr.RetryAfter > 0 {
		seconds := int(apiErr.RetryAfter.Seconds())
		ctx.Set("Retry-After", strconv.Itoa(seconds))
		errBody["retry_after_seconds"] = seconds
	}
	if apiErr.QuotaRemaining != nil {
		errBody["quota_remaining"] = *apiErr.QuotaRemaining
	}

	return ctx.Status(statusForKind(apiErr.Kind)).JSON(fiber.Map{"error": errBody})
}
