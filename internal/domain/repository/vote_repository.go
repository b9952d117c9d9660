package repository

import "context"

type VoteRepository interface {
	HasVoted(ctx context.Context, reportID, userID string) (bool, error)
	// RecordVote is idempotent per (reportID, userID).
	RecordVote(ctx context.Context, reportID, userID string) error
	VotedReportIDs(ctx context.Context, userID string) ([]string, error)
	Reset(ctx context.Context) error
}
