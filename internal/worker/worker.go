// Package worker drives the extraction pipeline: it polls the durable
// job queue, processes one locked job at a time and records the
// resulting note, task and audit state transitions.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/domain"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/extraction"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/store"
)

// Store is the persistence surface the worker needs.
type Store interface {
	store.JobStore
	store.NoteStore
	store.TaskStore
	store.AuditStore
}

// Config holds worker tuning knobs.
type Config struct {
	// MaxJobs bounds how many jobs one RunOnce batch will lock.
	MaxJobs int

	// MaxAttempts is the retry budget per job; at this many attempts a
	// job fails terminally.
	MaxAttempts int

	// Interval is the polling period of the continuous loop.
	Interval time.Duration

	// TenantID optionally restricts the worker to one tenant's jobs.
	TenantID string
}

// DefaultConfig returns a Config with the standard defaults.
func DefaultConfig() Config {
	return Config{
		MaxJobs:     5,
		MaxAttempts: 3,
		Interval:    time.Second,
	}
}

// Worker processes extraction jobs against a store using one provider.
type Worker struct {
	store    Store
	provider extraction.Provider
	config   Config
	logger   *slog.Logger
}

// New creates a Worker. Zero config fields fall back to defaults; a nil
// logger falls back to the default logger.
func New(st Store, provider extraction.Provider, config Config, logger *slog.Logger) *Worker {
	defaults := DefaultConfig()
	if config.MaxJobs <= 0 {
		config.MaxJobs = defaults.MaxJobs
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		store:    st,
		provider: provider,
		config:   config,
		logger:   logger.With(slog.String("component", "worker")),
	}
}

// RunOnce locks and processes jobs until the queue is drained or
// MaxJobs is reached. The returned count is how many jobs were locked;
// a job that failed its attempt still counts as processed.
func (w *Worker) RunOnce(ctx context.Context) int {
	processed := 0

	for processed < w.config.MaxJobs {
		ok, err := w.ProcessNext(ctx)
		if err != nil {
			w.logger.Error("failed to acquire next job", slog.String("error", err.Error()))
			break
		}
		if !ok {
			break
		}
		processed++
	}

	w.logger.Info("run finished", slog.Int("processed", processed))
	return processed
}

// ProcessNext locks at most one job and runs it through the pipeline.
// It reports whether a job was locked. Per-job failures are translated
// into retry bookkeeping and never escape; the returned error covers
// only the lock acquisition itself.
func (w *Worker) ProcessNext(ctx context.Context) (bool, error) {
	job, err := w.store.LockNextJob(ctx, w.config.TenantID)
	if errors.Is(err, store.ErrNoJobAvailable) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	logger := w.logger.With(
		slog.String("tenant_id", job.TenantID),
		slog.String("job_id", job.ID),
		slog.String("note_id", job.NoteID),
	)
	logger.Info("job locked", slog.String("transition", "queued->processing"))

	if err := w.processJob(ctx, job, logger); err != nil {
		w.recordFailure(ctx, job, err, logger)
	}

	return true, nil
}

// processJob drives one locked job end to end: note processing, task
// extraction, suggested-set replacement, atomic completion, audits.
func (w *Worker) processJob(ctx context.Context, job *domain.Job, logger *slog.Logger) error {
	note, err := w.store.SetNoteStatus(ctx, job.TenantID, job.NoteID, domain.NoteStatusProcessing)
	if err != nil {
		return fmt.Errorf("mark note processing: %w", err)
	}

	extracted, err := w.provider.ExtractTasks(ctx, note.RawText)
	if err != nil {
		return fmt.Errorf("extract tasks: %w", err)
	}

	candidates := make([]store.SuggestedTask, 0, len(extracted))
	for _, task := range extracted {
		candidates = append(candidates, store.SuggestedTask{
			Title:      task.Title,
			Owner:      task.Owner,
			DueDate:    task.DueDate,
			Confidence: task.Confidence,
		})
	}

	suggested, err := w.store.ReplaceSuggestedTasksForJob(ctx, store.ReplaceSuggestedTasksParams{
		TenantID: job.TenantID,
		NoteID:   note.ID,
		JobID:    job.ID,
		Tasks:    candidates,
	})
	if err != nil {
		return fmt.Errorf("replace suggested tasks: %w", err)
	}

	completedJob, _, err := w.store.CompleteJobForNote(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("complete job: %w", err)
	}

	w.audit(ctx, job.TenantID, "job_completed", note.ID, map[string]string{
		"jobId": job.ID,
	}, logger)
	w.audit(ctx, job.TenantID, "tasks_suggested_count", note.ID, map[string]string{
		"jobId": job.ID,
		"count": strconv.Itoa(len(suggested)),
	}, logger)

	logger.Info("job completed",
		slog.Int("tasks_suggested", len(suggested)),
		slog.String("status", string(completedJob.Status)),
		slog.String("transition", "processing->done"))
	return nil
}

// recordFailure books one failed attempt and, when the budget is
// exhausted, fails the note and writes the job_failed audit event.
func (w *Worker) recordFailure(ctx context.Context, job *domain.Job, jobErr error, logger *slog.Logger) {
	updated, err := w.store.MarkJobAttemptFailed(ctx, job.ID, jobErr.Error(), w.config.MaxAttempts)
	if err != nil {
		logger.Error("failed to record job attempt failure", slog.String("error", err.Error()))
		return
	}

	if updated.Status == domain.JobStatusFailed {
		if _, err := w.store.SetNoteStatus(ctx, job.TenantID, job.NoteID, domain.NoteStatusFailed); err != nil {
			logger.Error("failed to mark note failed", slog.String("error", err.Error()))
		}
		w.audit(ctx, job.TenantID, "job_failed", job.NoteID, map[string]string{
			"jobId":    job.ID,
			"attempts": strconv.Itoa(updated.Attempts),
			"error":    jobErr.Error(),
		}, logger)
	}

	logger.Error("job attempt failed",
		slog.String("error", jobErr.Error()),
		slog.Int("attempts", updated.Attempts),
		slog.String("status", string(updated.Status)))
}

func (w *Worker) audit(
	ctx context.Context,
	tenantID, action, noteID string,
	details map[string]string,
	logger *slog.Logger,
) {
	_, err := w.store.AddAuditEvent(ctx, store.AuditEntry{
		TenantID:    tenantID,
		ActorUserID: domain.WorkerActorID,
		Action:      action,
		EntityType:  domain.AuditEntityNote,
		EntityID:    noteID,
		Details:     details,
	})
	if err != nil {
		logger.Error("failed to write audit event",
			slog.String("action", action),
			slog.String("error", err.Error()))
	}
}

// Run polls the queue on the configured interval until ctx is
// cancelled. Each tick fires RunOnce without awaiting the previous one;
// overlapping batches are safe because LockNextJob is the sole
// job-acquisition gate.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	w.logger.Info("worker loop started", slog.Duration("interval", w.config.Interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker loop stopped")
			return
		case <-ticker.C:
			// Detach from the loop context so stopping the loop never
			// cancels a batch already in flight.
			go w.RunOnce(context.WithoutCancel(ctx))
		}
	}
}

// Start launches Run on a background context and returns a stop
// function. Stop halts future ticks only; in-flight batches finish.
func (w *Worker) Start() (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)
	return cancel
}
