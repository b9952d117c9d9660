package handler

import (
	"github.com/labstack/echo/v4"

	"ratpatrol/internal/adapter/api/middleware"
	"ratpatrol/internal/domain/entity"
	"ratpatrol/internal/usecase"
	"ratpatrol/pkg/errors"
	"ratpatrol/pkg/response"
)

type ReviewHandler struct {
	reviewUseCase *usecase.ReviewUseCase
}

func NewReviewHandler(reviewUseCase *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{
		reviewUseCase: reviewUseCase,
	}
}

type reviewReportRequest struct {
	Vote string `json:"vote" validate:"required,oneof=approve reject"`
}

func (h *ReviewHandler) ReviewReport(c echo.Context) error {
	reportID := c.Param("reportId")
	if reportID == "" {
		return response.Error(c, errors.BadRequest("Report ID is required", nil))
	}

	// Parse request body
	var req reviewReportRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	// Call use case
	result, err := h.reviewUseCase.ReviewReport(c.Request().Context(), reportID, entity.Vote(req.Vote), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}

	// Skipped votes are not errors; the result carries the reason.
	return response.Success(c, result)
}

func (h *ReviewHandler) ReviewQueue(c echo.Context) error {
	queue, err := h.reviewUseCase.ReviewQueue(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, queue)
}
