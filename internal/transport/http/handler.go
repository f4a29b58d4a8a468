// Package http wires the metric computations to their HTTP endpoints.
package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/yshino/repo-metrics/internal/domain"
	"github.com/yshino/repo-metrics/internal/usecase"
)

// defaultLookbackDays is used when the days query parameter is absent or
// not numeric.
const defaultLookbackDays = 30

// Handler exposes the metric computations over HTTP.
type Handler struct {
	log     *zap.SugaredLogger
	service usecase.Service
	timeout time.Duration
}

// NewHandler constructs an HTTP handler with its service dependencies.
// timeout bounds each request; the remote source is untrusted for response time.
func NewHandler(log *zap.SugaredLogger, service usecase.Service, timeout time.Duration) *Handler {
	return &Handler{
		log:     log,
		service: service,
		timeout: timeout,
	}
}

// lookbackDays reads the optional days query parameter. Anything that does
// not parse falls back to the default; the parsed value is passed through
// as-is since the aggregations tolerate zero and negative windows.
func lookbackDays(c *fiber.Ctx) int {
	raw := c.Query("days")
	if raw == "" {
		return defaultLookbackDays
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return defaultLookbackDays
	}
	return days
}

func (h *Handler) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context(), h.timeout)
}

func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrInvalidInput) {
		status = http.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// GetCommitActivity handles GET /api/metrics/commits.
func (h *Handler) GetCommitActivity(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.service.CommitsPerUser(ctx, lookbackDays(c))
	if err != nil {
		h.log.Errorw("failed to compute commit activity", "error", err)
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(result)
}

// GetPRMetrics handles GET /api/metrics/prs.
func (h *Handler) GetPRMetrics(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.service.PRMetrics(ctx, lookbackDays(c))
	if err != nil {
		h.log.Errorw("failed to compute PR metrics", "error", err)
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(result)
}

// GetIssueMetrics handles GET /api/metrics/issues.
func (h *Handler) GetIssueMetrics(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.service.IssueMetrics(ctx, lookbackDays(c))
	if err != nil {
		h.log.Errorw("failed to compute issue metrics", "error", err)
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(result)
}

// GetContributionTrends handles GET /api/metrics/contributions.
func (h *Handler) GetContributionTrends(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.service.ContributionTrends(ctx, lookbackDays(c))
	if err != nil {
		h.log.Errorw("failed to compute contribution trends", "error", err)
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(result)
}

// GetActivityHeatmap handles GET /api/metrics/activity.
func (h *Handler) GetActivityHeatmap(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.service.ActivityHeatmap(ctx, lookbackDays(c))
	if err != nil {
		h.log.Errorw("failed to compute activity heatmap", "error", err)
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(result)
}

// GetAllMetrics handles GET /api/metrics/all.
func (h *Handler) GetAllMetrics(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.service.AllMetrics(ctx, lookbackDays(c))
	if err != nil {
		h.log.Errorw("failed to compute all metrics", "error", err)
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(result)
}

// GetHealth handles GET /api/health.
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
