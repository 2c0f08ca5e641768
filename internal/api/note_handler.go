package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/api/shared"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/domain"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/flags"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/platform/logger"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/store"
)

// CreateNoteRequest represents the request body for submitting a note.
type CreateNoteRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	RawText string `json:"rawText" validate:"required,min=1"`
}

// NoteSubmissionResponse is the body of POST /notes: the stored note
// plus the extraction job enqueued against it.
type NoteSubmissionResponse struct {
	Note *domain.Note `json:"note"`
	Job  *domain.Job  `json:"job"`
}

// NoteResponse wraps a single note.
type NoteResponse struct {
	Note *domain.Note `json:"note"`
}

// NoteListResponse wraps a page of notes.
type NoteListResponse struct {
	Notes []domain.Note `json:"notes"`
}

// NoteDeletedResponse is the body of DELETE /notes/{id}.
type NoteDeletedResponse struct {
	Deleted bool   `json:"deleted"`
	NoteID  string `json:"noteId"`
}

// NoteStore is the persistence surface the note handler needs.
type NoteStore interface {
	store.NoteStore
	store.TaskStore
	store.AuditStore
}

// NoteHandler handles note-related HTTP requests.
type NoteHandler struct {
	store     NoteStore
	validator *validator.Validate
	logger    *slog.Logger
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(st NoteStore, log *slog.Logger) *NoteHandler {
	if log == nil {
		log = slog.Default()
	}
	return &NoteHandler{
		store:     st,
		validator: validator.New(),
		logger:    log.With(slog.String("component", "note_handler")),
	}
}

// CreateNote handles POST /notes requests. The note and its extraction
// job are created atomically; processing happens asynchronously, so the
// response is 202 Accepted.
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if !requireWriteRole(w, r, identity) {
		return
	}

	var req CreateNoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Malformed JSON body.")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.RawText = strings.TrimSpace(req.RawText)
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	note, job, err := h.store.CreateNote(r.Context(), store.CreateNoteParams{
		TenantID:  identity.TenantID,
		Title:     req.Title,
		RawText:   req.RawText,
		CreatedBy: identity.UserID,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.audit(r, store.AuditEntry{
		TenantID:    identity.TenantID,
		ActorUserID: identity.UserID,
		Action:      "note.submitted",
		EntityType:  domain.AuditEntityNote,
		EntityID:    note.ID,
		Details:     map[string]string{"jobId": job.ID},
	})

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Info("note submitted",
		slog.String("tenant_id", identity.TenantID),
		slog.String("note_id", note.ID),
		slog.String("job_id", job.ID))

	shared.RespondWithJSON(w, r, http.StatusAccepted, NoteSubmissionResponse{Note: note, Job: job})
}

// ListNotes handles GET /notes requests with optional limit (1..100)
// and offset (>= 0) query parameters.
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	limit, err := parseBoundedQueryInt(r, "limit", 1, 100)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	offset, err := parseBoundedQueryInt(r, "offset", 0, -1)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	notes, err := h.store.ListNotesByTenant(r.Context(), identity.TenantID, limit, offset)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NoteListResponse{Notes: notes})
}

// GetNote handles GET /notes/{id} requests.
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	note, err := h.store.GetNoteByIDForTenant(r.Context(), identity.TenantID, chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NoteResponse{Note: note})
}

// GetNoteTasks handles GET /notes/{id}/tasks requests.
func (h *NoteHandler) GetNoteTasks(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	note, err := h.store.GetNoteByIDForTenant(r.Context(), identity.TenantID, chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	tasks, err := h.store.ListTasksByNote(r.Context(), identity.TenantID, note.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{Tasks: tasks})
}

// DeleteNote handles DELETE /notes/{id} requests. The endpoint is gated
// by the notes.allowDelete feature flag and reads as not found while
// the flag is off, so its existence cannot be probed.
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if !identity.Flags.Bool(flags.KeyNotesAllowDelete, false) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Note not found.")
		return
	}

	if !requireAdminRole(w, r, identity) {
		return
	}

	noteID := chi.URLParam(r, "id")
	note, err := h.store.GetNoteByIDForTenant(r.Context(), identity.TenantID, noteID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if err := h.store.DeleteNoteForTenant(r.Context(), identity.TenantID, noteID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.audit(r, store.AuditEntry{
		TenantID:    identity.TenantID,
		ActorUserID: identity.UserID,
		Action:      "note_deleted",
		EntityType:  domain.AuditEntityNote,
		EntityID:    noteID,
		Details:     map[string]string{"title": note.Title},
	})

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Info("note deleted",
		slog.String("tenant_id", identity.TenantID),
		slog.String("note_id", noteID))

	shared.RespondWithJSON(w, r, http.StatusOK, NoteDeletedResponse{Deleted: true, NoteID: noteID})
}

func (h *NoteHandler) audit(r *http.Request, entry store.AuditEntry) {
	if _, err := h.store.AddAuditEvent(r.Context(), entry); err != nil {
		log := logger.FromContextOrDefault(r.Context(), h.logger)
		log.Error("failed to write audit event",
			slog.String("action", entry.Action),
			slog.String("error", err.Error()))
	}
}

// parseBoundedQueryInt parses an optional integer query parameter and
// enforces its bounds. max < 0 means unbounded above. An absent
// parameter returns the zero value.
func parseBoundedQueryInt(r *http.Request, name string, min, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &queryParamError{name: name}
	}
	if value < min || (max >= 0 && value > max) {
		return 0, &queryParamError{name: name}
	}
	return value, nil
}

type queryParamError struct {
	name string
}

func (e *queryParamError) Error() string {
	return "invalid query parameter " + e.name
}
