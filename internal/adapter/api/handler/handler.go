package handler

import (
	"ratpatrol/internal/usecase"
	"ratpatrol/pkg/logger"
)

var (
	reportHandler       *ReportHandler
	reviewHandler       *ReviewHandler
	gamificationHandler *GamificationHandler
)

func Setup(
	reportUseCase *usecase.ReportUseCase,
	reviewUseCase *usecase.ReviewUseCase,
	gamificationUseCase usecase.GamificationUseCase,
	log logger.Logger,
) {
	reportHandler = NewReportHandler(reportUseCase)
	reviewHandler = NewReviewHandler(reviewUseCase)
	gamificationHandler = NewGamificationHandler(gamificationUseCase, log)
}

func GetReportHandler() *ReportHandler {
	return reportHandler
}

func GetReviewHandler() *ReviewHandler {
	return reviewHandler
}

func GetGamificationHandler() *GamificationHandler {
	return gamificationHandler
}
