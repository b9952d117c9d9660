package repository

import (
	"context"

	"ratpatrol/internal/domain/entity"
)

type ProfileRepository interface {
	// Get returns the stored profile or seeds and returns a default one.
	Get(ctx context.Context, userID string) (*entity.UserProfile, error)
	Save(ctx context.Context, profile *entity.UserProfile) error
	// Reset drops every profile and restores the default device profile.
	Reset(ctx context.Context) error
}
