package handler

import (
	"github.com/labstack/echo/v4"

	"ratpatrol/internal/adapter/api/middleware"
	"ratpatrol/internal/domain/entity"
	"ratpatrol/internal/usecase"
	"ratpatrol/pkg/errors"
	"ratpatrol/pkg/response"
	"ratpatrol/pkg/utils"
)

type ReportHandler struct {
	reportUseCase *usecase.ReportUseCase
}

func NewReportHandler(reportUseCase *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{
		reportUseCase: reportUseCase,
	}
}

// GET /v1/reports?status=&author=&page=&limit=
func (h *ReportHandler) ListReports(c echo.Context) error {
	ctx := c.Request().Context()

	// Parse query parameters
	status := c.QueryParam("status")
	author := c.QueryParam("author")

	var (
		reports []*entity.Report
		err     error
	)
	switch {
	case status != "":
		reports, err = h.reportUseCase.ListByStatus(ctx, entity.ReportStatus(status))
	case author != "":
		reports, err = h.reportUseCase.ListByAuthor(ctx, author)
	default:
		reports, err = h.reportUseCase.ListReports(ctx)
	}
	if err != nil {
		return response.Error(c, err)
	}

	// Both filters given: narrow the status list by author
	if status != "" && author != "" {
		byAuthor := make([]*entity.Report, 0, len(reports))
		for _, r := range reports {
			if r.AuthorID == author {
				byAuthor = append(byAuthor, r)
			}
		}
		reports = byAuthor
	}

	// Get pagination parameters
	pagination := utils.GetPaginationParams(c)
	return response.Paginated(c, utils.Paginate(reports, pagination), int64(len(reports)), pagination.Page, pagination.PageSize)
}

func (h *ReportHandler) GetReport(c echo.Context) error {
	reportID := c.Param("reportId")
	if reportID == "" {
		return response.Error(c, errors.BadRequest("Report ID is required", nil))
	}

	report, err := h.reportUseCase.GetReport(c.Request().Context(), reportID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, report)
}

func (h *ReportHandler) SubmitReport(c echo.Context) error {
	// Parse request body
	var req usecase.SubmitReportInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	// Get user ID from context
	report, err := h.reportUseCase.SubmitReport(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, report)
}

func (h *ReportHandler) DeleteReport(c echo.Context) error {
	reportID := c.Param("reportId")
	if reportID == "" {
		return response.Error(c, errors.BadRequest("Report ID is required", nil))
	}

	// Only the author may delete; a missing report is a no-op
	if err := h.reportUseCase.DeleteReport(c.Request().Context(), reportID, middleware.UserID(c)); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{
		"message": "Report deleted",
	})
}
