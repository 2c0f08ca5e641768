package jsonfile

import (
	"context"
	"log/slog"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/domain"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/store"
)

// EnqueueJob implements store.JobStore.EnqueueJob.
func (s *Store) EnqueueJob(ctx context.Context, tenantID, noteID string) (*domain.Job, error) {
	job, err := domain.NewJob(tenantID, noteID)
	if err != nil {
		return nil, err
	}

	err = s.update(func(doc *document) error {
		doc.Jobs = append(doc.Jobs, *job)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return job, nil
}

// UpsertJob implements store.JobStore.UpsertJob.
func (s *Store) UpsertJob(ctx context.Context, job *domain.Job) error {
	record := *job
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
		for i := range doc.Jobs {
			if doc.Jobs[i].ID == record.ID {
				doc.Jobs[i] = record
				return nil
			}
		}
		doc.Jobs = append(doc.Jobs, record)
		return nil
	})
}

// GetJobByID implements store.JobStore.GetJobByID.
func (s *Store) GetJobByID(ctx context.Context, jobID string) (*domain.Job, error) {
	var found *domain.Job

	err := s.view(func(doc *document) error {
		for _, job := range doc.Jobs {
			if job.ID == jobID {
				j := job
				found = &j
				return nil
			}
		}
		return store.ErrJobNotFound
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// LockNextJob implements store.JobStore.LockNextJob. Jobs are scanned in
// document order, which is enqueue order, so locking is FIFO. A
// processing job whose lock is older than the lease TTL counts as
// abandoned and is reclaimed in the same write; TTL zero disables that.
func (s *Store) LockNextJob(ctx context.Context, tenantID string) (*domain.Job, error) {
	var locked domain.Job

	err := s.update(func(doc *document) error {
		for i := range doc.Jobs {
			job := &doc.Jobs[i]
			if tenantID != "" && job.TenantID != tenantID {
				continue
			}
			if !s.lockable(job) {
				continue
			}

			ts := now()
			job.LockedAt = &ts
			job.Status = domain.JobStatusProcessing
			job.UpdatedAt = ts
			locked = *job
			return nil
		}
		return store.ErrNoJobAvailable
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("job locked",
		slog.String("tenant_id", locked.TenantID),
		slog.String("job_id", locked.ID),
		slog.Int("attempts", locked.Attempts))
	return &locked, nil
}

// lockable reports whether a job may be locked: queued and unlocked, or
// stuck in processing past the lease TTL.
func (s *Store) lockable(job *domain.Job) bool {
	if job.Status == domain.JobStatusQueued && job.LockedAt == nil {
		return true
	}

	if s.lockTTL > 0 &&
		job.Status == domain.JobStatusProcessing &&
		job.LockedAt != nil &&
		now().Sub(*job.LockedAt) > s.lockTTL {
		s.logger.Warn("reclaiming abandoned job lock",
			slog.String("job_id", job.ID),
			slog.Time("locked_at", *job.LockedAt))
		return true
	}

	return false
}

// MarkJobCompleted implements store.JobStore.MarkJobCompleted.
func (s *Store) MarkJobCompleted(ctx context.Context, jobID string) (*domain.Job, error) {
	var completed domain.Job

	err := s.update(func(doc *document) error {
		job := findJob(doc, jobID)
		if job == nil {
			return store.ErrJobNotFound
		}

		completeJobInternal(job)
		completed = *job
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &completed, nil
}

// MarkJobAttemptFailed implements store.JobStore.MarkJobAttemptFailed.
func (s *Store) MarkJobAttemptFailed(
	ctx context.Context,
	jobID, errorMessage string,
	maxAttempts int,
) (*domain.Job, error) {
	var updated domain.Job

	err := s.update(func(doc *document) error {
		job := findJob(doc, jobID)
		if job == nil {
			return store.ErrJobNotFound
		}

		job.Attempts++
		job.LastError = errorMessage
		if job.Attempts >= maxAttempts {
			job.Status = domain.JobStatusFailed
		} else {
			job.Status = domain.JobStatusQueued
		}
		job.LockedAt = nil
		job.UpdatedAt = now()

		updated = *job
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Warn("job attempt failed",
		slog.String("job_id", jobID),
		slog.Int("attempts", updated.Attempts),
		slog.String("status", string(updated.Status)),
		slog.String("error", errorMessage))
	return &updated, nil
}

// CompleteJobForNote implements store.JobStore.CompleteJobForNote. Job
// completion and note readiness land in one write so no observer can see
// one without the other.
func (s *Store) CompleteJobForNote(ctx context.Context, jobID string) (*domain.Job, *domain.Note, error) {
	var (
		completedJob  domain.Job
		completedNote domain.Note
	)

	err := s.update(func(doc *document) error {
		job := findJob(doc, jobID)
		if job == nil {
			return store.ErrJobNotFound
		}

		note := findNote(doc, job.TenantID, job.NoteID)
		if note == nil {
			return store.ErrNoteNotFound
		}

		completeJobInternal(job)
		note.Status = domain.NoteStatusReady

		completedJob = *job
		completedNote = *note
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &completedJob, &completedNote, nil
}

func completeJobInternal(job *domain.Job) {
	ts := now()
	job.Status = domain.JobStatusDone
	job.LockedAt = nil
	job.LastError = ""
	job.CompletedAt = &ts
	job.UpdatedAt = ts
}

func findJob(doc *document, jobID string) *domain.Job {
	for i := range doc.Jobs {
		if doc.Jobs[i].ID == jobID {
			return &doc.Jobs[i]
		}
	}
	return nil
}
