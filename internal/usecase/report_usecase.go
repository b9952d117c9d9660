package usecase

import (
	"context"
	"strings"
	"time"

	"ratpatrol/internal/domain/entity"
	"ratpatrol/internal/domain/repository"
	"ratpatrol/internal/domain/service"
	"ratpatrol/pkg/errors"
	"ratpatrol/pkg/logger"
)

type SubmitReportInput struct {
	Location    string  `json:"location" validate:"required,max=200"`
	Lat         float64 `json:"lat" validate:"latitude"`
	Lng         float64 `json:"lng" validate:"longitude"`
	Description string  `json:"description" validate:"required,max=2000"`
	// Photo is either a data: URI, uploaded when a photo service is
	// configured, or an already hosted URL.
	Photo string `json:"photo" validate:"required"`
}

type ReportUseCase struct {
	reportRepo  repository.ReportRepository
	profileRepo repository.ProfileRepository
	photos      service.PhotoUploadService
	ledger      *rewardLedger
	events      EventPublisher
	lock        *StoreLock
	logger      logger.Logger
}

// NewReportUseCase wires the report lifecycle. photos may be nil, in which
// case inline photos are stored as submitted.
func NewReportUseCase(
	reportRepo repository.ReportRepository,
	profileRepo repository.ProfileRepository,
	photos service.PhotoUploadService,
	events EventPublisher,
	lock *StoreLock,
	log logger.Logger,
) *ReportUseCase {
	log = log.With("usecase", "report")
	return &ReportUseCase{
		reportRepo:  reportRepo,
		profileRepo: profileRepo,
		photos:      photos,
		ledger:      &rewardLedger{profileRepo: profileRepo, logger: log},
		events:      publisherOrNoop(events),
		lock:        lock,
		logger:      log,
	}
}

func (uc *ReportUseCase) SubmitReport(ctx context.Context, authorID string, input SubmitReportInput) (*entity.Report, error) {
	input.Location = strings.TrimSpace(input.Location)
	input.Description = strings.TrimSpace(input.Description)
	switch {
	case input.Location == "":
		return nil, errors.BadRequest("Location is required", nil)
	case input.Description == "":
		return nil, errors.BadRequest("Description is required", nil)
	case input.Photo == "":
		return nil, errors.BadRequest("Photo is required", nil)
	}

	// Upload outside the lock; it is the slow part.
	photo := input.Photo
	if uc.photos != nil && strings.HasPrefix(photo, "data:") {
		url, err := uc.photos.UploadPhoto(ctx, photo)
		if err != nil {
			return nil, err
		}
		photo = url
	}

	uc.lock.Lock()
	defer uc.lock.Unlock()

	author, err := uc.profileRepo.Get(ctx, authorID)
	if err != nil {
		return nil, err
	}

	report := &entity.Report{
		AuthorID:     author.ID,
		AuthorName:   author.Name,
		AuthorAvatar: author.Avatar,
		Location:     input.Location,
		Lat:          input.Lat,
		Lng:          input.Lng,
		Description:  input.Description,
		Photo:        photo,
	}
	if err := uc.reportRepo.Create(ctx, report); err != nil {
		uc.discardPhoto(ctx, photo, input.Photo)
		return nil, err
	}

	if _, err := uc.ledger.creditSubmission(ctx, author.ID); err != nil {
		return nil, err
	}

	uc.logger.Info("Report submitted", "reportID", report.ID, "authorID", author.ID)
	uc.events.Publish(entity.ReportEvent{
		Type:      entity.EventReportCreated,
		ReportID:  report.ID,
		Report:    report.Clone(),
		ActorID:   author.ID,
		Timestamp: time.Now(),
	})
	return report, nil
}

func (uc *ReportUseCase) ListReports(ctx context.Context) ([]*entity.Report, error) {
	uc.lock.Lock()
	defer uc.lock.Unlock()
	return uc.reportRepo.List(ctx)
}

func (uc *ReportUseCase) GetReport(ctx context.Context, reportID string) (*entity.Report, error) {
	uc.lock.Lock()
	defer uc.lock.Unlock()
	return uc.reportRepo.GetByID(ctx, reportID)
}

func (uc *ReportUseCase) ListByStatus(ctx context.Context, status entity.ReportStatus) ([]*entity.Report, error) {
	if !status.Valid() {
		return nil, errors.BadRequest("Unknown report status "+string(status), nil)
	}

	uc.lock.Lock()
	defer uc.lock.Unlock()
	return uc.reportRepo.FilterByStatus(ctx, status)
}

func (uc *ReportUseCase) ListApproved(ctx context.Context) ([]*entity.Report, error) {
	return uc.ListByStatus(ctx, entity.ReportStatusApproved)
}

func (uc *ReportUseCase) ListByAuthor(ctx context.Context, userID string) ([]*entity.Report, error) {
	uc.lock.Lock()
	defer uc.lock.Unlock()
	return uc.reportRepo.FilterByAuthor(ctx, userID)
}

// DeleteReport removes a report and takes back userID's submission reward.
// Deleting an id that does not exist changes nothing. Only the author may
// delete a report.
func (uc *ReportUseCase) DeleteReport(ctx context.Context, reportID, userID string) error {
	uc.lock.Lock()
	defer uc.lock.Unlock()

	report, err := uc.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil
		}
		return err
	}
	if report.AuthorID != userID {
		return errors.Forbidden("Only the author can delete this report", nil)
	}

	if err := uc.reportRepo.Delete(ctx, reportID); err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil
		}
		return err
	}

	if _, err := uc.ledger.debitSubmission(ctx, userID); err != nil {
		return err
	}

	if uc.photos != nil && report.Photo != "" {
		if err := uc.photos.DeletePhoto(ctx, report.Photo); err != nil {
			uc.logger.Warn("Failed to delete report photo", "reportID", reportID, "error", err)
		}
	}

	uc.logger.Info("Report deleted", "reportID", reportID, "userID", userID)
	uc.events.Publish(entity.ReportEvent{
		Type:      entity.EventReportDeleted,
		ReportID:  reportID,
		ActorID:   userID,
		Timestamp: time.Now(),
	})
	return nil
}

// discardPhoto removes a photo uploaded for a report that was never stored.
func (uc *ReportUseCase) discardPhoto(ctx context.Context, photo, submitted string) {
	if uc.photos == nil || photo == submitted {
		return
	}
	if err := uc.photos.DeletePhoto(ctx, photo); err != nil {
		uc.logger.Warn("Failed to discard uploaded photo", "error", err)
	}
}
