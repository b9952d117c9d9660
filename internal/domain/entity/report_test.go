package entity

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		likes, dislikes int
		want            ReportStatus
	}{
		{0, 0, ReportStatusPending},
		{2, 2, ReportStatusPending},
		{3, 0, ReportStatusApproved},
		{3, 2, ReportStatusApproved},
		{0, 3, ReportStatusRejected},
		{3, 3, ReportStatusRejected},
		{7, 4, ReportStatusRejected},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.likes, tt.dislikes), "likes=%d dislikes=%d", tt.likes, tt.dislikes)
	}
}

func TestStatusFor_Law(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("rejected iff dislikes reach the threshold", prop.ForAll(
		func(likes, dislikes int) bool {
			return (StatusFor(likes, dislikes) == ReportStatusRejected) == (dislikes >= ConsensusThreshold)
		},
		gen.IntRange(0, 20), gen.IntRange(0, 20),
	))
	properties.Property("approved iff likes reach the threshold and dislikes do not", prop.ForAll(
		func(likes, dislikes int) bool {
			want := likes >= ConsensusThreshold && dislikes < ConsensusThreshold
			return (StatusFor(likes, dislikes) == ReportStatusApproved) == want
		},
		gen.IntRange(0, 20), gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}

func TestApplyVote(t *testing.T) {
	r := &Report{ID: "report-x", Status: ReportStatusPending, ReviewedBy: []string{}}

	assert.True(t, r.ApplyVote(VoteApprove, "a"))
	assert.False(t, r.ApplyVote(VoteReject, "a"))
	assert.True(t, r.ApplyVote(VoteReject, "b"))

	assert.Equal(t, 1, r.Likes)
	assert.Equal(t, 1, r.Dislikes)
	assert.Equal(t, []string{"a", "b"}, r.ReviewedBy)
	assert.Equal(t, ReportStatusPending, r.Status)
}

func TestClone_CopiesReviewers(t *testing.T) {
	r := &Report{ReviewedBy: []string{"a"}}
	c := r.Clone()
	c.ReviewedBy[0] = "b"
	assert.Equal(t, "a", r.ReviewedBy[0])
}

func TestSeedReports(t *testing.T) {
	seed := SeedReports()
	assert.Len(t, seed, 8)
	assert.Equal(t, "report-1", seed[0].ID)

	for i := range seed {
		assert.Equal(t, ReportStatusPending, seed[i].Status)
		assert.NotNil(t, seed[i].ReviewedBy)
	}

	seed[0].Likes = 99
	assert.Zero(t, SeedReports()[0].Likes, "each call returns a fresh copy")
}
