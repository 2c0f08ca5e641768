package jsonfile

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/domain"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/store"
)

// CreateNote implements store.NoteStore.CreateNote. The submitted note
// and its queued job land in the same document write.
func (s *Store) CreateNote(
	ctx context.Context,
	params store.CreateNoteParams,
) (*domain.Note, *domain.Job, error) {
	note := &domain.Note{
		ID:        uuid.NewString(),
		TenantID:  params.TenantID,
		Title:     params.Title,
		RawText:   params.RawText,
		Status:    domain.NoteStatusSubmitted,
		CreatedBy: params.CreatedBy,
		CreatedAt: now(),
	}
	if err := note.Validate(); err != nil {
		return nil, nil, err
	}

	job, err := domain.NewJob(params.TenantID, note.ID)
	if err != nil {
		return nil, nil, err
	}

	err = s.update(func(doc *document) error {
		doc.Notes = append(doc.Notes, *note)
		doc.Jobs = append(doc.Jobs, *job)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("note submitted and job enqueued",
		slog.String("tenant_id", params.TenantID),
		slog.String("note_id", note.ID),
		slog.String("job_id", job.ID))
	return note, job, nil
}

// UpsertNote implements store.NoteStore.UpsertNote.
func (s *Store) UpsertNote(ctx context.Context, note *domain.Note) error {
	record := *note
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now()
	}
	if err := record.Validate(); err != nil {
		return err
	}

	return s.update(func(doc *document) error {
		for i := range doc.Notes {
			if doc.Notes[i].ID == record.ID {
				doc.Notes[i] = record
				return nil
			}
		}
		doc.Notes = append(doc.Notes, record)
		return nil
	})
}

// ListNotesByTenant implements store.NoteStore.ListNotesByTenant.
func (s *Store) ListNotesByTenant(
	ctx context.Context,
	tenantID string,
	limit, offset int,
) ([]domain.Note, error) {
	notes := []domain.Note{}

	err := s.view(func(doc *document) error {
		for _, note := range doc.Notes {
			if note.TenantID == tenantID {
				notes = append(notes, note)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if offset >= len(notes) {
		return []domain.Note{}, nil
	}
	notes = notes[offset:]
	if limit > 0 && limit < len(notes) {
		notes = notes[:limit]
	}

	return notes, nil
}

// GetNoteByIDForTenant implements store.NoteStore.GetNoteByIDForTenant.
// A note under another tenant is reported as absent, not forbidden.
func (s *Store) GetNoteByIDForTenant(ctx context.Context, tenantID, noteID string) (*domain.Note, error) {
	var found *domain.Note

	err := s.view(func(doc *document) error {
		if note := findNote(doc, tenantID, noteID); note != nil {
			n := *note
			found = &n
			return nil
		}
		return store.ErrNoteNotFound
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// DeleteNoteForTenant implements store.NoteStore.DeleteNoteForTenant.
// The note's tasks and jobs go with it; other tenants' rows are untouched.
func (s *Store) DeleteNoteForTenant(ctx context.Context, tenantID, noteID string) error {
	err := s.update(func(doc *document) error {
		index := -1
		for i := range doc.Notes {
			if doc.Notes[i].ID == noteID && doc.Notes[i].TenantID == tenantID {
				index = i
				break
			}
		}
		if index == -1 {
			return store.ErrNoteNotFound
		}

		doc.Notes = append(doc.Notes[:index], doc.Notes[index+1:]...)

		kept := doc.Tasks[:0]
		for _, task := range doc.Tasks {
			if task.TenantID == tenantID && task.NoteID == noteID {
				continue
			}
			kept = append(kept, task)
		}
		doc.Tasks = kept

		keptJobs := doc.Jobs[:0]
		for _, job := range doc.Jobs {
			if job.TenantID == tenantID && job.NoteID == noteID {
				continue
			}
			keptJobs = append(keptJobs, job)
		}
		doc.Jobs = keptJobs

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("note deleted with cascade",
		slog.String("tenant_id", tenantID),
		slog.String("note_id", noteID))
	return nil
}

// SetNoteStatus implements store.NoteStore.SetNoteStatus.
func (s *Store) SetNoteStatus(
	ctx context.Context,
	tenantID, noteID string,
	status domain.NoteStatus,
) (*domain.Note, error) {
	if !status.IsValid() {
		return nil, domain.ErrInvalidNoteStatus
	}

	var updated domain.Note
	err := s.update(func(doc *document) error {
		for i := range doc.Notes {
			if doc.Notes[i].ID == noteID && doc.Notes[i].TenantID == tenantID {
				doc.Notes[i].Status = status
				updated = doc.Notes[i]
				return nil
			}
		}
		return store.ErrNoteNotFound
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func findNote(doc *document, tenantID, noteID string) *domain.Note {
	for i := range doc.Notes {
		if doc.Notes[i].ID == noteID && doc.Notes[i].TenantID == tenantID {
			return &doc.Notes[i]
		}
	}
	return nil
}
