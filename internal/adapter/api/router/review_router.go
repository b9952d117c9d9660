package router

import (
	"github.com/labstack/echo/v4"

	"ratpatrol/internal/adapter/api/handler"
	"ratpatrol/internal/adapter/api/middleware"
	"ratpatrol/internal/infrastructure/ratelimit"
)

func SetupReviewRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	reviewHandler := handler.GetReviewHandler()

	identified := e.Group("/v1")
	identified.Use(authMiddleware.Identify)

	identified.GET("/reviews/queue", reviewHandler.ReviewQueue)
	identified.POST("/reports/:reportId/review", reviewHandler.ReviewReport,
		middleware.RateLimit(limiter, ratelimit.ActionReviewReport))
}
