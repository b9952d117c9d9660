package usecase

import (
	"context"
	"time"

	"ratpatrol/internal/domain/entity"
	"ratpatrol/internal/domain/repository"
	"ratpatrol/pkg/errors"
	"ratpatrol/pkg/logger"
)

// Reasons a review was ignored.
const (
	ReviewSkippedNotFound      = "not_found"
	ReviewSkippedDuplicateVote = "duplicate_vote"
	ReviewSkippedSelfReview    = "self_review"
)

// ReviewResult reports whether a vote changed anything. A skipped vote is
// not an error; Reason says why it was skipped.
type ReviewResult struct {
	Applied bool                `json:"applied"`
	Reason  string              `json:"reason,omitempty"`
	Report  *entity.Report      `json:"report,omitempty"`
	Profile *entity.UserProfile `json:"profile,omitempty"`
}

type ReviewUseCase struct {
	reportRepo repository.ReportRepository
	voteRepo   repository.VoteRepository
	ledger     *rewardLedger
	events     EventPublisher
	lock       *StoreLock
	logger     logger.Logger
}

func NewReviewUseCase(
	reportRepo repository.ReportRepository,
	voteRepo repository.VoteRepository,
	profileRepo repository.ProfileRepository,
	events EventPublisher,
	lock *StoreLock,
	log logger.Logger,
) *ReviewUseCase {
	log = log.With("usecase", "review")
	return &ReviewUseCase{
		reportRepo: reportRepo,
		voteRepo:   voteRepo,
		ledger:     &rewardLedger{profileRepo: profileRepo, logger: log},
		events:     publisherOrNoop(events),
		lock:       lock,
		logger:     log,
	}
}

// ReviewReport casts voterID's vote on a report. Each voter counts once per
// report and authors cannot vote on their own reports.
func (uc *ReviewUseCase) ReviewReport(ctx context.Context, reportID string, vote entity.Vote, voterID string) (*ReviewResult, error) {
	if !vote.Valid() {
		return nil, errors.BadRequest("Vote must be approve or reject", nil)
	}

	uc.lock.Lock()
	defer uc.lock.Unlock()

	report, err := uc.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return &ReviewResult{Reason: ReviewSkippedNotFound}, nil
		}
		return nil, err
	}

	if report.AuthorID == voterID {
		return &ReviewResult{Reason: ReviewSkippedSelfReview, Report: report}, nil
	}

	voted, err := uc.voteRepo.HasVoted(ctx, reportID, voterID)
	if err != nil {
		return nil, err
	}
	if voted || !report.ApplyVote(vote, voterID) {
		return &ReviewResult{Reason: ReviewSkippedDuplicateVote, Report: report}, nil
	}

	// Report first, then ledger, then credit. A failure after the report write
	// leaves the tally in place without a reviewer credit.
	if err := uc.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}
	if err := uc.voteRepo.RecordVote(ctx, reportID, voterID); err != nil {
		return nil, err
	}

	profile, err := uc.ledger.creditReview(ctx, voterID)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Report reviewed",
		"reportID", reportID,
		"voterID", voterID,
		"vote", vote,
		"likes", report.Likes,
		"dislikes", report.Dislikes,
		"status", report.Status)

	uc.events.Publish(entity.ReportEvent{
		Type:      entity.EventReportReviewed,
		ReportID:  report.ID,
		Report:    report.Clone(),
		ActorID:   voterID,
		Timestamp: time.Now(),
	})

	return &ReviewResult{Applied: true, Report: report, Profile: profile}, nil
}

// ReviewQueue lists pending reports userID can still vote on, newest first.
func (uc *ReviewUseCase) ReviewQueue(ctx context.Context, userID string) ([]*entity.Report, error) {
	uc.lock.Lock()
	defer uc.lock.Unlock()

	pending, err := uc.reportRepo.FilterByStatus(ctx, entity.ReportStatusPending)
	if err != nil {
		return nil, err
	}

	votedIDs, err := uc.voteRepo.VotedReportIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	voted := make(map[string]struct{}, len(votedIDs))
	for _, id := range votedIDs {
		voted[id] = struct{}{}
	}

	queue := make([]*entity.Report, 0, len(pending))
	for _, report := range pending {
		if _, ok := voted[report.ID]; ok {
			continue
		}
		if report.AuthorID == userID || report.HasReviewer(userID) {
			continue
		}
		queue = append(queue, report)
	}
	return queue, nil
}
