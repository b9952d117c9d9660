package handler

import (
	"github.com/labstack/echo/v4"

	"ratpatrol/internal/adapter/api/middleware"
	"ratpatrol/internal/domain/entity"
	"ratpatrol/internal/usecase"
	"ratpatrol/pkg/errors"
	"ratpatrol/pkg/logger"
	"ratpatrol/pkg/response"
)

type GamificationHandler struct {
	gamificationUseCase usecase.GamificationUseCase
	logger              logger.Logger
}

func NewGamificationHandler(
	gamificationUseCase usecase.GamificationUseCase,
	log logger.Logger,
) *GamificationHandler {
	return &GamificationHandler{
		gamificationUseCase: gamificationUseCase,
		logger:              log,
	}
}

// GET /v1/profile
func (h *GamificationHandler) GetStatus(c echo.Context) error {
	status, err := h.gamificationUseCase.GetStatus(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, status)
}

type updateProfileRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,max=50"`
	Avatar *string `json:"avatar,omitempty" validate:"omitempty,max=2048"`
}

// PATCH /v1/profile
func (h *GamificationHandler) UpdateProfile(c echo.Context) error {
	// Parse request body
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	// Call use case with the editable fields only
	profile, err := h.gamificationUseCase.UpdateProfile(c.Request().Context(), middleware.UserID(c), entity.ProfileUpdate{
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, entity.NewProfileStatus(profile))
}

// POST /v1/profile/reset
func (h *GamificationHandler) ResetAll(c echo.Context) error {
	userID := middleware.UserID(c)
	if err := h.gamificationUseCase.ResetAll(c.Request().Context(), userID); err != nil {
		h.logger.Error("Failed to reset store", "userID", userID, "error", err)
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{
		"message": "All data reset",
	})
}
