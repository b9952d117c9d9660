package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ratpatrol/internal/domain/entity"
	"ratpatrol/internal/domain/repository"
	"ratpatrol/internal/infrastructure/kvstore"
	"ratpatrol/pkg/errors"
	"ratpatrol/pkg/logger"
)

type kvReportRepository struct {
	store  kvstore.Store
	logger logger.Logger
	now    func() time.Time
}

func NewKVReportRepository(store kvstore.Store, log logger.Logger) repository.ReportRepository {
	return NewKVReportRepositoryWithClock(store, log, time.Now)
}

func NewKVReportRepositoryWithClock(store kvstore.Store, log logger.Logger, now func() time.Time) repository.ReportRepository {
	return &kvReportRepository{
		store:  store,
		logger: log.With("component", "report_repository"),
		now:    now,
	}
}

// read loads the collection, seeding it on first access. Store failures are
// returned as is so callers can pick between degrading and failing.
func (r *kvReportRepository) read(ctx context.Context) ([]*entity.Report, error) {
	var reports []*entity.Report
	found, err := loadJSON(ctx, r.store, ReportsKey, &reports)
	if err != nil {
		return nil, err
	}

	if !found {
		reports = entity.SeedReports()
		if err := saveJSON(ctx, r.store, ReportsKey, reports); err != nil {
			r.logger.Warn("Failed to persist seed reports", "error", err)
		}
		return reports, nil
	}

	for _, report := range reports {
		if report.ReviewedBy == nil {
			report.ReviewedBy = []string{}
		}
		if !report.Status.Valid() {
			report.Status = entity.StatusFor(report.Likes, report.Dislikes)
		}
	}
	return reports, nil
}

func (r *kvReportRepository) write(ctx context.Context, operation string, reports []*entity.Report) error {
	if err := saveJSON(ctx, r.store, ReportsKey, reports); err != nil {
		return errors.StorageUnavailable(operation, err)
	}
	return nil
}

func (r *kvReportRepository) Create(ctx context.Context, report *entity.Report) error {
	reports, err := r.read(ctx)
	if err != nil {
		return errors.StorageUnavailable("create report", err)
	}

	if report.ID == "" {
		report.ID = "report-" + uuid.New().String()
	}
	for _, existing := range reports {
		if existing.ID == report.ID {
			return errors.Conflict("Report " + report.ID + " already exists")
		}
	}

	if report.Timestamp == 0 {
		report.Timestamp = r.now().UnixMilli()
	}
	report.Likes = 0
	report.Dislikes = 0
	report.Status = entity.ReportStatusPending
	report.ReviewedBy = []string{}

	reports = append([]*entity.Report{report.Clone()}, reports...)
	return r.write(ctx, "create report", reports)
}

func (r *kvReportRepository) List(ctx context.Context) ([]*entity.Report, error) {
	reports, err := r.read(ctx)
	if err != nil {
		r.logger.Warn("Report store unavailable, serving sample data", "error", err)
		return entity.SeedReports(), nil
	}
	return reports, nil
}

func (r *kvReportRepository) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	reports, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, report := range reports {
		if report.ID == id {
			return report, nil
		}
	}
	return nil, errors.NotFound("Report", nil)
}

func (r *kvReportRepository) FilterByStatus(ctx context.Context, status entity.ReportStatus) ([]*entity.Report, error) {
	return r.filter(ctx, func(report *entity.Report) bool {
		return report.Status == status
	})
}

func (r *kvReportRepository) FilterByAuthor(ctx context.Context, userID string) ([]*entity.Report, error) {
	return r.filter(ctx, func(report *entity.Report) bool {
		return report.AuthorID == userID
	})
}

func (r *kvReportRepository) filter(ctx context.Context, keep func(*entity.Report) bool) ([]*entity.Report, error) {
	reports, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*entity.Report, 0, len(reports))
	for _, report := range reports {
		if keep(report) {
			filtered = append(filtered, report)
		}
	}
	return filtered, nil
}

func (r *kvReportRepository) Update(ctx context.Context, report *entity.Report) error {
	reports, err := r.read(ctx)
	if err != nil {
		return errors.StorageUnavailable("update report", err)
	}

	for i, existing := range reports {
		if existing.ID == report.ID {
			reports[i] = report.Clone()
			return r.write(ctx, "update report", reports)
		}
	}
	return errors.NotFound("Report", nil)
}

func (r *kvReportRepository) Delete(ctx context.Context, id string) error {
	reports, err := r.read(ctx)
	if err != nil {
		return errors.StorageUnavailable("delete report", err)
	}

	for i, existing := range reports {
		if existing.ID == id {
			reports = append(reports[:i], reports[i+1:]...)
			return r.write(ctx, "delete report", reports)
		}
	}
	return errors.NotFound("Report", nil)
}

func (r *kvReportRepository) Reset(ctx context.Context) error {
	return r.write(ctx, "reset reports", entity.SeedReports())
}
