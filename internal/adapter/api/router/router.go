package router

import (
	"github.com/labstack/echo/v4"

	"ratpatrol/internal/adapter/api/handler"
	"ratpatrol/internal/adapter/api/middleware"
	"ratpatrol/internal/infrastructure/ratelimit"
)

func Setup(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	limiter *ratelimit.RateLimiter,
	wsHandler *handler.WebSocketHandler,
) {
	SetupHealthRouter(e)
	SetupReportRouter(e, authMiddleware, limiter)
	SetupReviewRouter(e, authMiddleware, limiter)
	SetupGamificationRouter(e, authMiddleware)
	SetupWebSocketRouter(e, wsHandler, authMiddleware)
}
