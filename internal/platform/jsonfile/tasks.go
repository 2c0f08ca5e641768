package jsonfile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/domain"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/store"
)

// UpsertTask implements store.TaskStore.UpsertTask.
func (s *Store) UpsertTask(ctx context.Context, task *domain.Task) error {
	record := *task
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now()
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = record.CreatedAt
	}
	if err := record.Validate(); err != nil {
		return err
	}

	return s.update(func(doc *document) error {
		for i := range doc.Tasks {
			if doc.Tasks[i].ID == record.ID {
				doc.Tasks[i] = record
				return nil
			}
		}
		doc.Tasks = append(doc.Tasks, record)
		return nil
	})
}

// ListTasksByNote implements store.TaskStore.ListTasksByNote.
func (s *Store) ListTasksByNote(ctx context.Context, tenantID, noteID string) ([]domain.Task, error) {
	tasks := []domain.Task{}

	err := s.view(func(doc *document) error {
		for _, task := range doc.Tasks {
			if task.TenantID == tenantID && task.NoteID == noteID {
				tasks = append(tasks, task)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// ListTasksByTenant implements store.TaskStore.ListTasksByTenant. An
// empty status means no status filter.
func (s *Store) ListTasksByTenant(
	ctx context.Context,
	tenantID string,
	status domain.TaskStatus,
) ([]domain.Task, error) {
	tasks := []domain.Task{}

	err := s.view(func(doc *document) error {
		for _, task := range doc.Tasks {
			if task.TenantID != tenantID {
				continue
			}
			if status != "" && task.Status != status {
				continue
			}
			tasks = append(tasks, task)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// GetTaskByIDForTenant implements store.TaskStore.GetTaskByIDForTenant.
func (s *Store) GetTaskByIDForTenant(ctx context.Context, tenantID, taskID string) (*domain.Task, error) {
	var found *domain.Task

	err := s.view(func(doc *document) error {
		for _, task := range doc.Tasks {
			if task.ID == taskID && task.TenantID == tenantID {
				t := task
				found = &t
				return nil
			}
		}
		return store.ErrTaskNotFound
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// UpdateTaskForTenant implements store.TaskStore.UpdateTaskForTenant.
// Status is applied unconditionally; empty optional fields keep the
// previous values.
func (s *Store) UpdateTaskForTenant(
	ctx context.Context,
	tenantID, taskID string,
	params store.UpdateTaskParams,
) (*domain.Task, error) {
	if !params.Status.IsValid() {
		return nil, domain.ErrInvalidTaskStatus
	}

	var updated domain.Task
	err := s.update(func(doc *document) error {
		for i := range doc.Tasks {
			if doc.Tasks[i].ID != taskID || doc.Tasks[i].TenantID != tenantID {
				continue
			}

			doc.Tasks[i].Status = params.Status
			if params.Title != "" {
				doc.Tasks[i].Title = params.Title
			}
			if params.Owner != "" {
				doc.Tasks[i].Owner = params.Owner
			}
			if params.DueDate != "" {
				doc.Tasks[i].DueDate = params.DueDate
			}
			doc.Tasks[i].UpdatedAt = now()

			updated = doc.Tasks[i]
			return nil
		}
		return store.ErrTaskNotFound
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// ReplaceSuggestedTasksForJob implements
// store.TaskStore.ReplaceSuggestedTasksForJob. Only suggested rows with
// the same source job are dropped before the insert; approved and
// rejected survivors stay. IDs are deterministic per (job, position) so
// a re-run of the same job overwrites exactly its own prior output.
func (s *Store) ReplaceSuggestedTasksForJob(
	ctx context.Context,
	params store.ReplaceSuggestedTasksParams,
) ([]domain.Task, error) {
	createdAt := now()
	inserted := make([]domain.Task, 0, len(params.Tasks))
	for i, candidate := range params.Tasks {
		task := domain.Task{
			ID:          fmt.Sprintf("%s:suggested:%03d", params.JobID, i+1),
			TenantID:    params.TenantID,
			NoteID:      params.NoteID,
			SourceJobID: params.JobID,
			Title:       candidate.Title,
			Owner:       candidate.Owner,
			DueDate:     candidate.DueDate,
			Status:      domain.TaskStatusSuggested,
			Confidence:  candidate.Confidence,
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
		}
		if err := task.Validate(); err != nil {
			return nil, err
		}
		inserted = append(inserted, task)
	}

	err := s.update(func(doc *document) error {
		kept := doc.Tasks[:0]
		for _, task := range doc.Tasks {
			if task.TenantID == params.TenantID &&
				task.NoteID == params.NoteID &&
				task.Status == domain.TaskStatusSuggested &&
				task.SourceJobID == params.JobID {
				continue
			}
			kept = append(kept, task)
		}
		doc.Tasks = append(kept, inserted...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("suggested tasks replaced",
		slog.String("tenant_id", params.TenantID),
		slog.String("job_id", params.JobID),
		slog.Int("count", len(inserted)))
	return inserted, nil
}
