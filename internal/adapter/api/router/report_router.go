package router

import (
	"github.com/labstack/echo/v4"

	"ratpatrol/internal/adapter/api/handler"
	"ratpatrol/internal/adapter/api/middleware"
	"ratpatrol/internal/infrastructure/ratelimit"
)

func SetupReportRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	reportHandler := handler.GetReportHandler()

	reports := e.Group("/v1/reports")
	reports.Use(authMiddleware.Identify)

	reports.GET("", reportHandler.ListReports)
	reports.GET("/:reportId", reportHandler.GetReport)
	reports.POST("", reportHandler.SubmitReport, middleware.RateLimit(limiter, ratelimit.ActionSubmitReport))
	reports.DELETE("/:reportId", reportHandler.DeleteReport)
}
