package router

import (
	"github.com/labstack/echo/v4"

	"ratpatrol/internal/adapter/api/handler"
	"ratpatrol/internal/adapter/api/middleware"
)

func SetupGamificationRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	gamificationHandler := handler.GetGamificationHandler()

	profile := e.Group("/v1/profile")
	profile.Use(authMiddleware.Identify)

	profile.GET("", gamificationHandler.GetStatus)
	profile.PATCH("", gamificationHandler.UpdateProfile)
	profile.POST("/reset", gamificationHandler.ResetAll)
}
