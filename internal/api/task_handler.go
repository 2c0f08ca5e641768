package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/api/shared"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/domain"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/platform/logger"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/store"
)

// UpdateTaskRequest represents the request body for PATCH /tasks/{id}.
// Status is mandatory; the optional fields retain their stored values
// when omitted.
type UpdateTaskRequest struct {
	Status  string `json:"status" validate:"required,oneof=suggested approved rejected"`
	Title   string `json:"title" validate:"omitempty,min=1,max=240"`
	Owner   string `json:"owner" validate:"omitempty,min=1,max=200"`
	DueDate string `json:"dueDate" validate:"omitempty,min=1,max=50"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Task *domain.Task `json:"task"`
}

// TaskListResponse wraps a task listing.
type TaskListResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	store     store.TaskStore
	audits    store.AuditStore
	validator *validator.Validate
	logger    *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks store.TaskStore, audits store.AuditStore, log *slog.Logger) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{
		store:     tasks,
		audits:    audits,
		validator: validator.New(),
		logger:    log.With(slog.String("component", "task_handler")),
	}
}

// ListTasks handles GET /tasks requests with an optional status filter.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	status, ok := parseStatusFilter(w, r)
	if !ok {
		return
	}

	tasks, err := h.store.ListTasksByTenant(r.Context(), identity.TenantID, status)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{Tasks: tasks})
}

// UpdateTask handles PATCH /tasks/{id} requests: approve, reject or
// amend a task.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if !requireWriteRole(w, r, identity) {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Malformed JSON body.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	updated, err := h.store.UpdateTaskForTenant(r.Context(), identity.TenantID, chi.URLParam(r, "id"),
		store.UpdateTaskParams{
			Status:  domain.TaskStatus(req.Status),
			Title:   req.Title,
			Owner:   req.Owner,
			DueDate: req.DueDate,
		})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if _, err := h.audits.AddAuditEvent(r.Context(), store.AuditEntry{
		TenantID:    identity.TenantID,
		ActorUserID: identity.UserID,
		Action:      "task.updated",
		EntityType:  domain.AuditEntityTask,
		EntityID:    updated.ID,
		Details:     map[string]string{"status": string(updated.Status)},
	}); err != nil {
		log := logger.FromContextOrDefault(r.Context(), h.logger)
		log.Error("failed to write audit event",
			slog.String("action", "task.updated"),
			slog.String("error", err.Error()))
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Info("task updated",
		slog.String("tenant_id", identity.TenantID),
		slog.String("task_id", updated.ID),
		slog.String("status", string(updated.Status)))

	shared.RespondWithJSON(w, r, http.StatusOK, TaskResponse{Task: updated})
}

// ExportTasksCSV handles GET /tasks/export.csv requests, streaming the
// tenant's tasks as a CSV attachment.
func (h *TaskHandler) ExportTasksCSV(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	status, ok := parseStatusFilter(w, r)
	if !ok {
		return
	}

	tasks, err := h.store.ListTasksByTenant(r.Context(), identity.TenantID, status)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="tasks.csv"`)
	w.WriteHeader(http.StatusOK)

	if err := WriteTasksCSV(w, tasks); err != nil {
		log := logger.FromContextOrDefault(r.Context(), h.logger)
		log.Error("failed to write CSV export", slog.String("error", err.Error()))
	}
}

// parseStatusFilter validates the optional status query parameter,
// answering 400 on an unknown status. Empty means no filter.
func parseStatusFilter(w http.ResponseWriter, r *http.Request) (domain.TaskStatus, bool) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return "", true
	}

	status := domain.TaskStatus(raw)
	if !status.IsValid() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: invalid status filter")
		return "", false
	}
	return status, true
}
