package entity

type Vote string

const (
	VoteApprove Vote = "approve"
	VoteReject  Vote = "reject"
)

func (v Vote) Valid() bool {
	return v == VoteApprove || v == VoteReject
}
