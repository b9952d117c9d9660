package repository

import (
	"context"

	"ratpatrol/internal/domain/entity"
	"ratpatrol/internal/domain/repository"
	"ratpatrol/internal/infrastructure/kvstore"
	"ratpatrol/pkg/errors"
	"ratpatrol/pkg/logger"
)

type kvProfileRepository struct {
	store         kvstore.Store
	defaultUserID string
	logger        logger.Logger
}

func NewKVProfileRepository(store kvstore.Store, defaultUserID string, log logger.Logger) repository.ProfileRepository {
	if defaultUserID == "" {
		defaultUserID = entity.DefaultUserID
	}
	return &kvProfileRepository{
		store:         store,
		defaultUserID: defaultUserID,
		logger:        log.With("component", "profile_repository"),
	}
}

func (r *kvProfileRepository) read(ctx context.Context) (map[string]*entity.UserProfile, error) {
	profiles := map[string]*entity.UserProfile{}
	if _, err := loadJSON(ctx, r.store, ProfileKey, &profiles); err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = map[string]*entity.UserProfile{}
	}
	return profiles, nil
}

func (r *kvProfileRepository) Get(ctx context.Context, userID string) (*entity.UserProfile, error) {
	if userID == "" {
		userID = r.defaultUserID
	}

	profiles, err := r.read(ctx)
	if err != nil {
		r.logger.Warn("Profile store unavailable, serving default profile", "userID", userID, "error", err)
		return entity.NewDefaultProfile(userID), nil
	}

	if profile, ok := profiles[userID]; ok && profile != nil {
		return profile, nil
	}

	profile := entity.NewDefaultProfile(userID)
	profiles[userID] = profile
	if err := saveJSON(ctx, r.store, ProfileKey, profiles); err != nil {
		r.logger.Warn("Failed to persist default profile", "userID", userID, "error", err)
	}
	return profile, nil
}

func (r *kvProfileRepository) Save(ctx context.Context, profile *entity.UserProfile) error {
	profiles, err := r.read(ctx)
	if err != nil {
		return errors.StorageUnavailable("save profile", err)
	}

	stored := *profile
	profiles[profile.ID] = &stored
	if err := saveJSON(ctx, r.store, ProfileKey, profiles); err != nil {
		return errors.StorageUnavailable("save profile", err)
	}
	return nil
}

func (r *kvProfileRepository) Reset(ctx context.Context) error {
	profiles := map[string]*entity.UserProfile{
		r.defaultUserID: entity.NewDefaultProfile(r.defaultUserID),
	}
	if err := saveJSON(ctx, r.store, ProfileKey, profiles); err != nil {
		return errors.StorageUnavailable("reset profile", err)
	}
	return nil
}
