package entity

import "time"

type ReportEventType string

const (
	EventReportCreated  ReportEventType = "report.created"
	EventReportReviewed ReportEventType = "report.reviewed"
	EventReportDeleted  ReportEventType = "report.deleted"
	EventStoreReset     ReportEventType = "store.reset"
)

// ReportEvent is pushed to live-feed subscribers after a successful mutation.
type ReportEvent struct {
	Type      ReportEventType `json:"type"`
	ReportID  string          `json:"reportId,omitempty"`
	Report    *Report         `json:"report,omitempty"`
	ActorID   string          `json:"actorId,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}
