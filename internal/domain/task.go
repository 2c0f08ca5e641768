package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the review state of a candidate action item.
type TaskStatus string

// Possible task status values.
const (
	TaskStatusSuggested TaskStatus = "suggested"
	TaskStatusApproved  TaskStatus = "approved"
	TaskStatusRejected  TaskStatus = "rejected"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID       = errors.New("task ID cannot be empty")
	ErrEmptyTaskTenantID = errors.New("task tenant ID cannot be empty")
	ErrEmptyTaskNoteID   = errors.New("task note ID cannot be empty")
	ErrEmptyTaskTitle    = errors.New("task title cannot be empty")
)

// Task is a candidate or confirmed action item derived from a note.
// Extraction creates tasks in the suggested state with a SourceJobID;
// humans only ever change the status and the optional fields. Tasks are
// never deleted individually, only via a cascading note deletion.
type Task struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenantId"`
	NoteID      string     `json:"noteId"`
	SourceJobID string     `json:"sourceJobId,omitempty"`
	Title       string     `json:"title"`
	Owner       string     `json:"owner,omitempty"`
	DueDate     string     `json:"dueDate,omitempty"`
	Status      TaskStatus `json:"status"`
	Confidence  float64    `json:"confidence"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewTask creates a new Task in the suggested state.
// Returns an error if validation fails.
func NewTask(tenantID, noteID, title string, confidence float64) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		NoteID:     noteID,
		Title:      title,
		Status:     TaskStatusSuggested,
		Confidence: confidence,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == "" {
		return ErrEmptyTaskID
	}

	if t.TenantID == "" {
		return ErrEmptyTaskTenantID
	}

	if t.NoteID == "" {
		return ErrEmptyTaskNoteID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if !t.Status.IsValid() {
		return ErrInvalidTaskStatus
	}

	if t.Confidence < 0 || t.Confidence > 1 {
		return ErrInvalidConfidence
	}

	return nil
}

// IsValid reports whether the status is one of the known task statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusSuggested, TaskStatusApproved, TaskStatusRejected:
		return true
	default:
		return false
	}
}
