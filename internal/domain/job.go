package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of one unit of extraction work.
type JobStatus string

// Possible job status values. queued -> processing -> done on success;
// a transient failure requeues, an exhausted retry budget ends in failed.
// done and failed are terminal.
const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusDone       JobStatus = "done"
	JobStatusFailed     JobStatus = "failed"
)

// Common validation errors for Job
var (
	ErrEmptyJobID       = errors.New("job ID cannot be empty")
	ErrEmptyJobTenantID = errors.New("job tenant ID cannot be empty")
	ErrEmptyJobNoteID   = errors.New("job note ID cannot be empty")
	ErrNegativeAttempts = errors.New("job attempts cannot be negative")
)

// Job is one unit of asynchronous extraction work tied to a note
// submission. LockedAt doubles as the lock flag: a set LockedAt implies
// status processing.
type Job struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenantId"`
	NoteID      string     `json:"noteId"`
	Status      JobStatus  `json:"status"`
	Attempts    int        `json:"attempts"`
	LastError   string     `json:"lastError,omitempty"`
	LockedAt    *time.Time `json:"lockedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewJob creates a new queued Job for the given note.
// Returns an error if validation fails.
func NewJob(tenantID, noteID string) (*Job, error) {
	now := time.Now().UTC()
	job := &Job{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		NoteID:    noteID,
		Status:    JobStatusQueued,
		Attempts:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}

	return job, nil
}

// Validate checks if the Job has valid data.
func (j *Job) Validate() error {
	if j.ID == "" {
		return ErrEmptyJobID
	}

	if j.TenantID == "" {
		return ErrEmptyJobTenantID
	}

	if j.NoteID == "" {
		return ErrEmptyJobNoteID
	}

	if !j.Status.IsValid() {
		return ErrInvalidJobStatus
	}

	if j.Attempts < 0 {
		return ErrNegativeAttempts
	}

	return nil
}

// IsTerminal reports whether the job can transition no further.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusDone || s == JobStatusFailed
}

// IsValid reports whether the status is one of the known job statuses.
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusQueued, JobStatusProcessing, JobStatusDone, JobStatusFailed:
		return true
	default:
		return false
	}
}
