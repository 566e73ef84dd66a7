package models

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// ProcessingJob is the audit record of one structured query run: the query,
// the raw model completion, which parse tier produced the result, and timing.
type ProcessingJob struct {
	ID            uuid.UUID `db:"id"`
	UserID        uuid.UUID `db:"user_id"`
	DocumentID    uuid.UUID `db:"document_id"`
	Query         string    `db:"query"`
	RawCompletion string    `db:"raw_completion"`
	ParseTier     string    `db:"parse_tier"`
	Status        JobStatus `db:"status"`
	ErrorMessage  string    `db:"error_message"`
	StartedAt     time.Time `db:"started_at"`
	CompletedAt   time.Time `db:"completed_at"`
	DurationMs    int64     `db:"duration_ms"`
}
