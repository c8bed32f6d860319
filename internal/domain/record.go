// Package domain defines the core data model for the application: job
// application records surfaced from the user's mailbox, the derived view
// computed from them, automation filter criteria, and orchestration task
// state. Persistence models are mapped with GORM and shared across the
// repository, record store, and service layers.
package domain

import "time"

// Status classifies a job application record. The value is produced by the
// mailbox scanner and treated as opaque-but-comparable here; an empty status
// marks a malformed record.
type Status string

// Tracked statuses. Records with any other non-empty status still count
// toward DerivedView.Total but are not broken out in CountsByStatus.
const (
	StatusShortlisted Status = "Shortlisted"
	StatusRejected    Status = "Rejected"
	StatusApplied     Status = "Applied"
	StatusInterview   Status = "Interview"
	StatusOffer       Status = "Offer"
)

// Tracked reports whether s is one of the statuses broken out in the
// per-status counters of a DerivedView.
func (s Status) Tracked() bool {
	switch s {
	case StatusShortlisted, StatusRejected, StatusApplied, StatusInterview, StatusOffer:
		return true
	}
	return false
}

// ApplicationRecord is a snapshot of a single job application surfaced from
// the user's mailbox. Records are owned by the record store; consumers hold
// read-only copies that are replaced wholesale on every subscription
// notification, never merged field by field.
//
// Fields:
//   - ID: stable opaque identifier (UUID for locally ingested records).
//   - UserID: partition key; every query and subscription is scoped to it.
//   - Status: classification from the scanner; empty means malformed.
//   - CompanyName: optional employer name extracted from the email.
//   - Snippet: short excerpt of the source email.
//   - ReceivedAt: optional timestamp of the source email.
type ApplicationRecord struct {
	ID          string     `json:"id"           gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID      string     `json:"user_id"      gorm:"type:TEXT NOT NULL;index:idx_record_user,priority:1"`
	Status      Status     `json:"status"       gorm:"type:TEXT NOT NULL;default:'';index:idx_record_user,priority:2"`
	CompanyName string     `json:"company_name,omitempty" gorm:"type:TEXT"`
	Snippet     string     `json:"snippet"      gorm:"type:TEXT"`
	ReceivedAt  *time.Time `json:"received_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the database table name for ApplicationRecord.
func (ApplicationRecord) TableName() string { return "job_applications" }
