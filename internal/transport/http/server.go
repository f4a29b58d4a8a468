package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/yshino/repo-metrics/internal/transport/http/middleware"
)

// NewServer builds the fiber application with all middleware and routes
// registered. Listening and shutdown are left to the caller.
func NewServer(log *zap.SugaredLogger, handler *Handler, requestTimeout time.Duration) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  requestTimeout,
		WriteTimeout: requestTimeout,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New())
	app.Use(middleware.RequestLogger(log))

	api := app.Group("/api")
	api.Get("/health", handler.GetHealth)

	metrics := api.Group("/metrics")
	metrics.Get("/commits", handler.GetCommitActivity)
	metrics.Get("/prs", handler.GetPRMetrics)
	metrics.Get("/issues", handler.GetIssueMetrics)
	metrics.Get("/contributions", handler.GetContributionTrends)
	metrics.Get("/activity", handler.GetActivityHeatmap)
	metrics.Get("/all", handler.GetAllMetrics)

	return app
}
