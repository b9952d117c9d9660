package repository

import (
	"context"

	"ratpatrol/internal/domain/repository"
	"ratpatrol/internal/infrastructure/kvstore"
	"ratpatrol/pkg/errors"
	"ratpatrol/pkg/logger"
)

// votes maps a voter id to the report ids that voter has voted on.
type votes map[string][]string

type kvVoteRepository struct {
	store  kvstore.Store
	logger logger.Logger
}

func NewKVVoteRepository(store kvstore.Store, log logger.Logger) repository.VoteRepository {
	return &kvVoteRepository{
		store:  store,
		logger: log.With("component", "vote_repository"),
	}
}

func (r *kvVoteRepository) read(ctx context.Context) (votes, error) {
	ledger := votes{}
	if _, err := loadJSON(ctx, r.store, VotesKey, &ledger); err != nil {
		return nil, err
	}
	if ledger == nil {
		ledger = votes{}
	}
	return ledger, nil
}

func (r *kvVoteRepository) HasVoted(ctx context.Context, reportID, userID string) (bool, error) {
	ids, err := r.VotedReportIDs(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == reportID {
			return true, nil
		}
	}
	return false, nil
}

func (r *kvVoteRepository) RecordVote(ctx context.Context, reportID, userID string) error {
	ledger, err := r.read(ctx)
	if err != nil {
		return errors.StorageUnavailable("record vote", err)
	}

	for _, id := range ledger[userID] {
		if id == reportID {
			return nil
		}
	}
	ledger[userID] = append(ledger[userID], reportID)

	if err := saveJSON(ctx, r.store, VotesKey, ledger); err != nil {
		return errors.StorageUnavailable("record vote", err)
	}
	return nil
}

func (r *kvVoteRepository) VotedReportIDs(ctx context.Context, userID string) ([]string, error) {
	ledger, err := r.read(ctx)
	if err != nil {
		r.logger.Warn("Vote ledger unavailable, assuming no votes", "userID", userID, "error", err)
		return []string{}, nil
	}
	return append([]string{}, ledger[userID]...), nil
}

func (r *kvVoteRepository) Reset(ctx context.Context) error {
	if err := r.store.Delete(ctx, VotesKey); err != nil {
		return errors.StorageUnavailable("reset votes", err)
	}
	return nil
}
