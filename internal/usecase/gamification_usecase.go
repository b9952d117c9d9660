package usecase

import (
	"context"
	"strings"
	"time"

	"ratpatrol/internal/domain/entity"
	"ratpatrol/internal/domain/repository"
	"ratpatrol/pkg/errors"
	"ratpatrol/pkg/logger"
)

type GamificationUseCase interface {
	// Reward ledger
	CreditSubmission(ctx context.Context, userID string) (*entity.UserProfile, error)
	CreditReview(ctx context.Context, userID string) (*entity.UserProfile, error)
	DebitSubmission(ctx context.Context, userID string) (*entity.UserProfile, error)

	// Profile
	GetProfile(ctx context.Context, userID string) (*entity.UserProfile, error)
	GetStatus(ctx context.Context, userID string) (*entity.ProfileStatus, error)
	UpdateProfile(ctx context.Context, userID string, update entity.ProfileUpdate) (*entity.UserProfile, error)

	// ResetAll restores the default profile, reseeds reports and clears votes.
	ResetAll(ctx context.Context, actorID string) error
}

type gamificationUseCase struct {
	profileRepo repository.ProfileRepository
	reportRepo  repository.ReportRepository
	voteRepo    repository.VoteRepository
	ledger      *rewardLedger
	events      EventPublisher
	lock        *StoreLock
	logger      logger.Logger
}

func NewGamificationUseCase(
	profileRepo repository.ProfileRepository,
	reportRepo repository.ReportRepository,
	voteRepo repository.VoteRepository,
	events EventPublisher,
	lock *StoreLock,
	log logger.Logger,
) GamificationUseCase {
	log = log.With("usecase", "gamification")
	return &gamificationUseCase{
		profileRepo: profileRepo,
		reportRepo:  reportRepo,
		voteRepo:    voteRepo,
		ledger:      &rewardLedger{profileRepo: profileRepo, logger: log},
		events:      publisherOrNoop(events),
		lock:        lock,
		logger:      log,
	}
}

func (uc *gamificationUseCase) CreditSubmission(ctx context.Context, userID string) (*entity.UserProfile, error) {
	uc.lock.Lock()
	defer uc.lock.Unlock()
	return uc.ledger.creditSubmission(ctx, userID)
}

func (uc *gamificationUseCase) CreditReview(ctx context.Context, userID string) (*entity.UserProfile, error) {
	uc.lock.Lock()
	defer uc.lock.Unlock()
	return uc.ledger.creditReview(ctx, userID)
}

// DebitSubmission reverses a submission credit. Points and count never go
// below zero.
func (uc *gamificationUseCase) DebitSubmission(ctx context.Context, userID string) (*entity.UserProfile, error) {
	uc.lock.Lock()
	defer uc.lock.Unlock()
	return uc.ledger.debitSubmission(ctx, userID)
}

func (uc *gamificationUseCase) GetProfile(ctx context.Context, userID string) (*entity.UserProfile, error) {
	uc.lock.Lock()
	defer uc.lock.Unlock()
	return uc.profileRepo.Get(ctx, userID)
}

func (uc *gamificationUseCase) GetStatus(ctx context.Context, userID string) (*entity.ProfileStatus, error) {
	profile, err := uc.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return entity.NewProfileStatus(profile), nil
}

func (uc *gamificationUseCase) UpdateProfile(ctx context.Context, userID string, update entity.ProfileUpdate) (*entity.UserProfile, error) {
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, errors.BadRequest("Name cannot be empty", nil)
		}
		update.Name = &name
	}

	uc.lock.Lock()
	defer uc.lock.Unlock()

	profile, err := uc.profileRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.Apply(update)
	if err := uc.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}

	uc.logger.Info("Profile updated", "userID", profile.ID)
	return profile, nil
}

func (uc *gamificationUseCase) ResetAll(ctx context.Context, actorID string) error {
	uc.lock.Lock()
	defer uc.lock.Unlock()

	if err := uc.profileRepo.Reset(ctx); err != nil {
		return err
	}
	if err := uc.reportRepo.Reset(ctx); err != nil {
		return err
	}
	if err := uc.voteRepo.Reset(ctx); err != nil {
		return err
	}

	uc.logger.Warn("Store reset to sample data", "actorID", actorID)
	uc.events.Publish(entity.ReportEvent{
		Type:      entity.EventStoreReset,
		ActorID:   actorID,
		Timestamp: time.Now(),
	})
	return nil
}
