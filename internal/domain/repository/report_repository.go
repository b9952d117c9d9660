package repository

import (
	"context"

	"ratpatrol/internal/domain/entity"
)

type ReportRepository interface {
	// Create assigns id and timestamp when empty, resets tallies and status,
	// and inserts the report at the head of the collection.
	Create(ctx context.Context, report *entity.Report) error
	// List returns every report newest first, seeding the sample dataset on
	// first access.
	List(ctx context.Context) ([]*entity.Report, error)
	GetByID(ctx context.Context, id string) (*entity.Report, error)
	FilterByStatus(ctx context.Context, status entity.ReportStatus) ([]*entity.Report, error)
	FilterByAuthor(ctx context.Context, userID string) ([]*entity.Report, error)
	Update(ctx context.Context, report *entity.Report) error
	Delete(ctx context.Context, id string) error
	// Reset clears the collection and reseeds the sample dataset.
	Reset(ctx context.Context) error
}
