package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// NoteStatus represents the processing state of a note.
type NoteStatus string

// Possible note status values. Transitions run strictly forward
// (submitted -> processing -> ready) except failed, which a human
// recovers from by resubmitting as a new note.
const (
	NoteStatusSubmitted  NoteStatus = "submitted"
	NoteStatusProcessing NoteStatus = "processing"
	NoteStatusReady      NoteStatus = "ready"
	NoteStatusFailed     NoteStatus = "failed"
)

// Common validation errors for Note
var (
	ErrEmptyNoteID       = errors.New("note ID cannot be empty")
	ErrEmptyNoteTenantID = errors.New("note tenant ID cannot be empty")
	ErrEmptyNoteTitle    = errors.New("note title cannot be empty")
	ErrEmptyNoteText     = errors.New("note raw text cannot be empty")
)

// Note is a submitted block of raw meeting text awaiting, or having
// undergone, task extraction.
type Note struct {
	ID        string     `json:"id"`
	TenantID  string     `json:"tenantId"`
	Title     string     `json:"title"`
	RawText   string     `json:"rawText"`
	Status    NoteStatus `json:"status"`
	CreatedBy string     `json:"createdBy"`
	CreatedAt time.Time  `json:"createdAt"`
}

// NewNote creates a new Note in the submitted state.
// Returns an error if validation fails.
func NewNote(tenantID, title, rawText, createdBy string) (*Note, error) {
	note := &Note{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Title:     title,
		RawText:   rawText,
		Status:    NoteStatusSubmitted,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	return note, nil
}

// Validate checks if the Note has valid data.
func (n *Note) Validate() error {
	if n.ID == "" {
		return ErrEmptyNoteID
	}

	if n.TenantID == "" {
		return ErrEmptyNoteTenantID
	}

	if n.Title == "" {
		return ErrEmptyNoteTitle
	}

	if n.RawText == "" {
		return ErrEmptyNoteText
	}

	if !n.Status.IsValid() {
		return ErrInvalidNoteStatus
	}

	return nil
}

// IsValid reports whether the status is one of the known note statuses.
func (s NoteStatus) IsValid() bool {
	switch s {
	case NoteStatusSubmitted, NoteStatusProcessing, NoteStatusReady, NoteStatusFailed:
		return true
	default:
		return false
	}
}
