package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kvrepo "ratpatrol/internal/adapter/repository"
	"ratpatrol/internal/domain/entity"
	"ratpatrol/internal/infrastructure/kvstore"
	apperrors "ratpatrol/pkg/errors"
	"ratpatrol/pkg/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.ReportEvent
}

func (p *recordingPublisher) Publish(event entity.ReportEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []entity.ReportEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]entity.ReportEventType, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

type fakePhotos struct {
	uploaded []string
	deleted  []string
	err      error
}

func (f *fakePhotos) UploadPhoto(_ context.Context, dataURI string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	url := "https://photos.example.com/public/reports/" + string(rune('a'+len(f.uploaded))) + ".png"
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

func (f *fakePhotos) DeletePhoto(_ context.Context, photoURL string) error {
	f.deleted = append(f.deleted, photoURL)
	return nil
}

// failingWrites reads through to a memory store and fails every write.
type failingWrites struct {
	kvstore.Store
}

func (failingWrites) Set(context.Context, string, []byte) error { return errors.New("disk full") }
func (failingWrites) Delete(context.Context, string) error      { return errors.New("disk full") }

type fixture struct {
	store        kvstore.Store
	events       *recordingPublisher
	photos       *fakePhotos
	reports      *ReportUseCase
	reviews      *ReviewUseCase
	gamification GamificationUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, kvstore.NewMemoryStore())
}

func newFixtureWithStore(t *testing.T, store kvstore.Store) *fixture {
	t.Helper()
	log := logger.Nop()
	reportRepo := kvrepo.NewKVReportRepository(store, log)
	voteRepo := kvrepo.NewKVVoteRepository(store, log)
	profileRepo := kvrepo.NewKVProfileRepository(store, entity.DefaultUserID, log)

	lock := NewStoreLock()
	events := &recordingPublisher{}
	photos := &fakePhotos{}

	return &fixture{
		store:        store,
		events:       events,
		photos:       photos,
		reports:      NewReportUseCase(reportRepo, profileRepo, photos, events, lock, log),
		reviews:      NewReviewUseCase(reportRepo, voteRepo, profileRepo, events, lock, log),
		gamification: NewGamificationUseCase(profileRepo, reportRepo, voteRepo, events, lock, log),
	}
}

func validInput() SubmitReportInput {
	return SubmitReportInput{
		Location:    "新宿三丁目",
		Lat:         35.6905,
		Lng:         139.7052,
		Description: "ゴミ置き場付近で2匹",
		Photo:       "/rat-near-garbage.jpg",
	}
}

func TestSubmitReport_CreditsAuthorAndPrepends(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	report, err := f.reports.SubmitReport(ctx, entity.DefaultUserID, validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, entity.ReportStatusPending, report.Status)
	assert.Equal(t, entity.DefaultUserID, report.AuthorID)
	assert.Equal(t, entity.DefaultUserName, report.AuthorName)
	assert.Zero(t, report.Likes)
	assert.Empty(t, report.ReviewedBy)

	all, err := f.reports.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(entity.SeedReports())+1)
	assert.Equal(t, report.ID, all[0].ID)

	profile, err := f.gamification.GetProfile(ctx, entity.DefaultUserID)
	require.NoError(t, err)
	assert.Equal(t, 10, profile.Points)
	assert.Equal(t, 1, profile.ReportsCount)

	assert.Equal(t, []entity.ReportEventType{entity.EventReportCreated}, f.events.types())
}

func TestSubmitReport_SnapshotsAuthorProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	name, avatar := "ネズミ探偵", "https://example.com/a.png"
	_, err := f.gamification.UpdateProfile(ctx, entity.DefaultUserID, entity.ProfileUpdate{Name: &name, Avatar: &avatar})
	require.NoError(t, err)

	report, err := f.reports.SubmitReport(ctx, entity.DefaultUserID, validInput())
	require.NoError(t, err)

	renamed := "別名"
	_, err = f.gamification.UpdateProfile(ctx, entity.DefaultUserID, entity.ProfileUpdate{Name: &renamed})
	require.NoError(t, err)

	stored, err := f.reports.GetReport(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, name, stored.AuthorName)
	assert.Equal(t, avatar, stored.AuthorAvatar)
}

func TestSubmitReport_MissingFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cases := map[string]func(*SubmitReportInput){
		"location":    func(in *SubmitReportInput) { in.Location = "  " },
		"description": func(in *SubmitReportInput) { in.Description = "" },
		"photo":       func(in *SubmitReportInput) { in.Photo = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := f.reports.SubmitReport(ctx, entity.DefaultUserID, in)
			assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
		})
	}

	profile, err := f.gamification.GetProfile(ctx, entity.DefaultUserID)
	require.NoError(t, err)
	assert.Zero(t, profile.Points)
}

func TestSubmitReport_UploadsInlinePhoto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	in := validInput()
	in.Photo = "data:image/png;base64,iVBORw0KGgo="
	report, err := f.reports.SubmitReport(ctx, entity.DefaultUserID, in)
	require.NoError(t, err)

	require.Len(t, f.photos.uploaded, 1)
	assert.Equal(t, f.photos.uploaded[0], report.Photo)

	hosted := validInput()
	report, err = f.reports.SubmitReport(ctx, entity.DefaultUserID, hosted)
	require.NoError(t, err)
	assert.Equal(t, "/rat-near-garbage.jpg", report.Photo)
	assert.Len(t, f.photos.uploaded, 1)
}

func TestSubmitReport_PhotoUploadFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.photos.err = apperrors.BadRequest("Invalid photo", nil)

	in := validInput()
	in.Photo = "data:text/plain,hello"
	_, err := f.reports.SubmitReport(ctx, entity.DefaultUserID, in)
	assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))

	all, err := f.reports.ListReports(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(entity.SeedReports()))
}

func TestReviewReport_ThreeApprovalsApprove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i, voter := range []string{"user-1", "user-10", "user-11"} {
		result, err := f.reviews.ReviewReport(ctx, "report-1", entity.VoteApprove, voter)
		require.NoError(t, err)
		require.True(t, result.Applied)
		assert.Equal(t, i+1, result.Report.Likes)
	}

	report, err := f.reports.GetReport(ctx, "report-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ReportStatusApproved, report.Status)

	// A later rejection is tallied but does not flip an approved report.
	result, err := f.reviews.ReviewReport(ctx, "report-1", entity.VoteReject, "user-12")
	require.NoError(t, err)
	require.True(t, result.Applied)
	assert.Equal(t, 1, result.Report.Dislikes)
	assert.Equal(t, entity.ReportStatusApproved, result.Report.Status)

	approved, err := f.reports.ListApproved(ctx)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "report-1", approved[0].ID)
}

func TestReviewReport_ThreeRejectionsReject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, voter := range []string{"user-1", "user-10", "user-11"} {
		_, err := f.reviews.ReviewReport(ctx, "report-2", entity.VoteReject, voter)
		require.NoError(t, err)
	}

	report, err := f.reports.GetReport(ctx, "report-2")
	require.NoError(t, err)
	assert.Equal(t, entity.ReportStatusRejected, report.Status)
	assert.Equal(t, 3, report.Dislikes)
	assert.Len(t, report.ReviewedBy, 3)
}

func TestReviewReport_CreditsReviewer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	result, err := f.reviews.ReviewReport(ctx, "report-3", entity.VoteApprove, entity.DefaultUserID)
	require.NoError(t, err)
	require.NotNil(t, result.Profile)
	assert.Equal(t, 5, result.Profile.Points)
	assert.Equal(t, 1, result.Profile.ReviewsCount)
	assert.Equal(t, []entity.ReportEventType{entity.EventReportReviewed}, f.events.types())
}

func TestReviewReport_DuplicateVoteIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.reviews.ReviewReport(ctx, "report-1", entity.VoteApprove, "user-1")
	require.NoError(t, err)

	result, err := f.reviews.ReviewReport(ctx, "report-1", entity.VoteReject, "user-1")
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Equal(t, ReviewSkippedDuplicateVote, result.Reason)

	report, err := f.reports.GetReport(ctx, "report-1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Likes)
	assert.Zero(t, report.Dislikes)

	profile, err := f.gamification.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5, profile.Points)
	assert.Equal(t, 1, profile.ReviewsCount)
}

func TestReviewReport_SelfReviewIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// report-1 is authored by user-2.
	result, err := f.reviews.ReviewReport(ctx, "report-1", entity.VoteApprove, "user-2")
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Equal(t, ReviewSkippedSelfReview, result.Reason)

	report, err := f.reports.GetReport(ctx, "report-1")
	require.NoError(t, err)
	assert.Zero(t, report.Likes)
	assert.Empty(t, f.events.types())
}

func TestReviewReport_UnknownReportIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	result, err := f.reviews.ReviewReport(ctx, "report-404", entity.VoteApprove, "user-1")
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Equal(t, ReviewSkippedNotFound, result.Reason)

	profile, err := f.gamification.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, profile.Points)
}

func TestReviewReport_InvalidVote(t *testing.T) {
	f := newFixture(t)
	_, err := f.reviews.ReviewReport(context.Background(), "report-1", entity.Vote("maybe"), "user-1")
	assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
}

func TestReviewReport_ConcurrentVotersAllCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var wg sync.WaitGroup
	voters := []string{"user-20", "user-21", "user-22", "user-23", "user-24", "user-25"}
	for _, voter := range voters {
		wg.Add(1)
		go func(voter string) {
			defer wg.Done()
			_, err := f.reviews.ReviewReport(ctx, "report-4", entity.VoteApprove, voter)
			assert.NoError(t, err)
		}(voter)
	}
	wg.Wait()

	report, err := f.reports.GetReport(ctx, "report-4")
	require.NoError(t, err)
	assert.Equal(t, len(voters), report.Likes)
	assert.ElementsMatch(t, voters, report.ReviewedBy)
}

func TestReviewQueue_ExcludesVotedAuthoredAndSettled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	own, err := f.reports.SubmitReport(ctx, "user-1", validInput())
	require.NoError(t, err)

	_, err = f.reviews.ReviewReport(ctx, "report-1", entity.VoteApprove, "user-1")
	require.NoError(t, err)
	for _, voter := range []string{"user-10", "user-11", "user-12"} {
		_, err = f.reviews.ReviewReport(ctx, "report-2", entity.VoteReject, voter)
		require.NoError(t, err)
	}

	queue, err := f.reviews.ReviewQueue(ctx, "user-1")
	require.NoError(t, err)

	ids := make([]string, 0, len(queue))
	for _, r := range queue {
		assert.Equal(t, entity.ReportStatusPending, r.Status)
		ids = append(ids, r.ID)
	}
	assert.NotContains(t, ids, own.ID)
	assert.NotContains(t, ids, "report-1")
	assert.NotContains(t, ids, "report-2")
	assert.Len(t, ids, len(entity.SeedReports())-2)
}

func TestDeleteReport_DebitsAuthor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	report, err := f.reports.SubmitReport(ctx, "user-1", validInput())
	require.NoError(t, err)

	require.NoError(t, f.reports.DeleteReport(ctx, report.ID, "user-1"))

	_, err = f.reports.GetReport(ctx, report.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	profile, err := f.gamification.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, profile.Points)
	assert.Zero(t, profile.ReportsCount)
	assert.Equal(t, []string{"/rat-near-garbage.jpg"}, f.photos.deleted)
	assert.Equal(t,
		[]entity.ReportEventType{entity.EventReportCreated, entity.EventReportDeleted},
		f.events.types())
}

func TestDeleteReport_MissingIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.reports.SubmitReport(ctx, "user-1", validInput())
	require.NoError(t, err)

	require.NoError(t, f.reports.DeleteReport(ctx, "report-404", "user-1"))

	profile, err := f.gamification.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 10, profile.Points)
	assert.Equal(t, 1, profile.ReportsCount)
}

func TestDeleteReport_OnlyAuthor(t *testing.T) {
	f := newFixture(t)
	err := f.reports.DeleteReport(context.Background(), "report-1", "user-1")
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
}

func TestDebitSubmission_FloorsAtZero(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.gamification.CreditReview(ctx, "user-1")
	require.NoError(t, err)

	profile, err := f.gamification.DebitSubmission(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, profile.Points)
	assert.Zero(t, profile.ReportsCount)
	assert.Equal(t, 1, profile.ReviewsCount)
}

func TestGetStatus_DerivesLevelAndBadges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i := 0; i < 5; i++ {
		_, err := f.gamification.CreditSubmission(ctx, "user-1")
		require.NoError(t, err)
	}

	status, err := f.gamification.GetStatus(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 50, status.Profile.Points)
	assert.Equal(t, 2, status.Level)
	assert.Equal(t, 100, status.NextLevelPoints)
	assert.Equal(t, []string{"first_report"}, status.UnlockedBadges)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	name := "  ラットハンター  "
	profile, err := f.gamification.UpdateProfile(ctx, "user-1", entity.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "ラットハンター", profile.Name)

	blank := " "
	_, err = f.gamification.UpdateProfile(ctx, "user-1", entity.ProfileUpdate{Name: &blank})
	assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
}

func TestResetAll_RestoresSampleData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.reports.SubmitReport(ctx, "user-1", validInput())
	require.NoError(t, err)
	_, err = f.reviews.ReviewReport(ctx, "report-1", entity.VoteApprove, "user-1")
	require.NoError(t, err)

	require.NoError(t, f.gamification.ResetAll(ctx, "user-1"))

	reports, err := f.reports.ListReports(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.SeedReports(), reports)

	profile, err := f.gamification.GetProfile(ctx, entity.DefaultUserID)
	require.NoError(t, err)
	assert.Equal(t, entity.NewDefaultProfile(entity.DefaultUserID), profile)

	// The ledger was cleared, so the same voter may vote again.
	result, err := f.reviews.ReviewReport(ctx, "report-1", entity.VoteApprove, "user-1")
	require.NoError(t, err)
	assert.True(t, result.Applied)

	assert.Contains(t, f.events.types(), entity.EventStoreReset)
}

func TestWritesFailWhenStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	f := newFixtureWithStore(t, failingWrites{Store: kvstore.NewMemoryStore()})

	_, err := f.reports.SubmitReport(ctx, "user-1", validInput())
	assert.True(t, apperrors.Is(err, apperrors.CodeStorageUnavailable))

	_, err = f.reviews.ReviewReport(ctx, "report-1", entity.VoteApprove, "user-1")
	assert.True(t, apperrors.Is(err, apperrors.CodeStorageUnavailable))

	// Reads still serve the sample data.
	reports, err := f.reports.ListReports(ctx)
	require.NoError(t, err)
	assert.Len(t, reports, len(entity.SeedReports()))
	assert.Empty(t, f.events.types())
}
