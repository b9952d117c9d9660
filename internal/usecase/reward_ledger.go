package usecase

import (
	"context"

	"ratpatrol/internal/domain/entity"
	"ratpatrol/internal/domain/repository"
	"ratpatrol/pkg/logger"
)

// rewardLedger applies point and counter changes to a profile. Callers hold
// the store lock.
type rewardLedger struct {
	profileRepo repository.ProfileRepository
	logger      logger.Logger
}

func (l *rewardLedger) apply(ctx context.Context, userID string, points, reports, reviews int) (*entity.UserProfile, error) {
	profile, err := l.profileRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.Points = floorZero(profile.Points + points)
	profile.ReportsCount = floorZero(profile.ReportsCount + reports)
	profile.ReviewsCount = floorZero(profile.ReviewsCount + reviews)

	if err := l.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}

	l.logger.Debug("Profile updated",
		"userID", profile.ID,
		"points", profile.Points,
		"reportsCount", profile.ReportsCount,
		"reviewsCount", profile.ReviewsCount)
	return profile, nil
}

func (l *rewardLedger) creditSubmission(ctx context.Context, userID string) (*entity.UserProfile, error) {
	return l.apply(ctx, userID, entity.PointsPerReport, 1, 0)
}

func (l *rewardLedger) creditReview(ctx context.Context, userID string) (*entity.UserProfile, error) {
	return l.apply(ctx, userID, entity.PointsPerReview, 0, 1)
}

func (l *rewardLedger) debitSubmission(ctx context.Context, userID string) (*entity.UserProfile, error) {
	return l.apply(ctx, userID, -entity.PointsPerReport, -1, 0)
}

func floorZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
