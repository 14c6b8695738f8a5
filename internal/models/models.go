package models

import (
	"time"

	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// Job status values. REJECTED and OFFERED are terminal: once a job reaches
// them, the email pipeline stops touching it (manual edits still can).
const (
	StatusSaved        = "SAVED"
	StatusApplied      = "APPLIED"
	StatusInterviewing = "INTERVIEWING"
	StatusOffered      = "OFFERED"
	StatusRejected     = "REJECTED"
)

func IsTerminalStatus(status string) bool {
	return status == StatusRejected || status == StatusOffered
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusSaved, StatusApplied, StatusInterviewing, StatusOffered, StatusRejected:
		return true
	}
	return false
}

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email string `gorm:"uniqueIndex;not null" json:"email"`
}

// TrackedJob is a posting the user saved from search results.
// At most one row per (user, external_id) pair.
type TrackedJob struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"date_added"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Stable identifier from the search provider
	ExternalID string `gorm:"not null;uniqueIndex:idx_owner_external" json:"external_id"`
	// Nullable for single-user deployments
	UserID *uint `gorm:"uniqueIndex:idx_owner_external" json:"user_id"`

	Title       string `gorm:"not null" json:"title"`
	CompanyName string `gorm:"not null" json:"company_name"`
	ApplyLink   string `json:"apply_link"`
	Status      string `gorm:"default:'SAVED'" json:"status"`

	// Bumped on status changes only, never on no-op writes
	LastUpdated time.Time `json:"last_updated"`
}

// EmailUpdate is the signal one classified mailbox message produced.
// Rows persisted by the reconciler are append-only history; they are
// never mutated after creation.
type EmailUpdate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	CompanyKey      string    `json:"company_key"`
	Verdict         string    `json:"verdict"` // POSITIVE or NEGATIVE
	SuggestedStatus string    `json:"suggested_status,omitempty"`
	Subject         string    `gorm:"type:text" json:"subject"`
	Sender          string    `json:"sender"`
	Timestamp       time.Time `json:"timestamp"`

	// Set when the reconciler applied this update to a tracked job
	JobID *uint `json:"job_id,omitempty"`
}

// MailboxSession holds the owner-scoped Gmail credential bundle. It is
// created whole on OAuth exchange and deleted whole when the provider
// rejects it; there are no partial updates.
type MailboxSession struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID *uint `gorm:"uniqueIndex" json:"user_id"`

	AccessToken  string    `gorm:"type:text" json:"-"`
	RefreshToken string    `gorm:"type:text" json:"-"`
	TokenType    string    `json:"-"`
	Expiry       time.Time `json:"expiry"`
}

// Token rebuilds the oauth2 token the Gmail client needs.
func (s *MailboxSession) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		Expiry:       s.Expiry,
	}
}

// ProcessedEmail dedupes Gmail message IDs across scans, so overlapping
// scheduled and manual runs never double-process a message.
type ProcessedEmail struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
}
