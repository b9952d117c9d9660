package entity

type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusApproved ReportStatus = "approved"
	ReportStatusRejected ReportStatus = "rejected"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusApproved, ReportStatusRejected:
		return true
	}
	return false
}

// ConsensusThreshold is the tally at which a report leaves pending.
const ConsensusThreshold = 3

// Report is a user-submitted sighting. Author fields are a snapshot taken at
// submission time and are not kept in sync with later profile edits.
type Report struct {
	ID           string       `json:"id" firestore:"id" bson:"id"`
	AuthorID     string       `json:"userId" firestore:"userId" bson:"userId"`
	AuthorName   string       `json:"userName" firestore:"userName" bson:"userName"`
	AuthorAvatar string       `json:"userAvatar,omitempty" firestore:"userAvatar,omitempty" bson:"userAvatar,omitempty"`
	Location     string       `json:"location" firestore:"location" bson:"location"`
	Lat          float64      `json:"lat" firestore:"lat" bson:"lat"`
	Lng          float64      `json:"lng" firestore:"lng" bson:"lng"`
	Description  string       `json:"description" firestore:"description" bson:"description"`
	Photo        string       `json:"photo,omitempty" firestore:"photo,omitempty" bson:"photo,omitempty"`
	Timestamp    int64        `json:"timestamp" firestore:"timestamp" bson:"timestamp"`
	Likes        int          `json:"likes" firestore:"likes" bson:"likes"`
	Dislikes     int          `json:"dislikes" firestore:"dislikes" bson:"dislikes"`
	Status       ReportStatus `json:"status" firestore:"status" bson:"status"`
	ReviewedBy   []string     `json:"reviewedBy" firestore:"reviewedBy" bson:"reviewedBy"`
}

// StatusFor derives a report's status from its tallies. When both thresholds
// are met the rejection wins.
func StatusFor(likes, dislikes int) ReportStatus {
	switch {
	case dislikes >= ConsensusThreshold:
		return ReportStatusRejected
	case likes >= ConsensusThreshold:
		return ReportStatusApproved
	default:
		return ReportStatusPending
	}
}

func (r *Report) HasReviewer(userID string) bool {
	for _, id := range r.ReviewedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// ApplyVote adds the voter's tally and recomputes the status. It reports
// false, leaving r untouched, when userID has already voted.
func (r *Report) ApplyVote(vote Vote, userID string) bool {
	if r.HasReviewer(userID) {
		return false
	}

	if vote == VoteApprove {
		r.Likes++
	} else {
		r.Dislikes++
	}
	r.ReviewedBy = append(r.ReviewedBy, userID)
	r.Status = StatusFor(r.Likes, r.Dislikes)
	return true
}

func (r *Report) Clone() *Report {
	c := *r
	c.ReviewedBy = append([]string(nil), r.ReviewedBy...)
	return &c
}
