package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/api"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/api/middleware"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/domain"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/flags"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/platform/jsonfile"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/store"
)

// newHandlerStore returns an initialized store over a temp directory.
func newHandlerStore(t *testing.T) *jsonfile.Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := jsonfile.New(t.TempDir(), jsonfile.Options{}, logger)
	require.NoError(t, st.Initialize())
	return st
}

// newHandlerRouter mounts the handlers on the production route shapes.
// Identity resolution is bypassed; tests attach identities per request.
func newHandlerRouter(st *jsonfile.Store) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	systemHandler := api.NewSystemHandler("development")
	tenantHandler := api.NewTenantHandler(st, logger)
	noteHandler := api.NewNoteHandler(st, logger)
	taskHandler := api.NewTaskHandler(st, st, logger)

	r := chi.NewRouter()
	r.Get("/health", systemHandler.Health)
	r.Get("/me", systemHandler.Me)
	r.Get("/tenants", tenantHandler.ListTenants)
	r.Post("/tenants", tenantHandler.CreateTenant)
	r.Get("/tenants/{id}/members", tenantHandler.ListMembers)
	r.Post("/tenants/{id}/members", tenantHandler.UpsertMember)
	r.Post("/notes", noteHandler.CreateNote)
	r.Get("/notes", noteHandler.ListNotes)
	r.Get("/notes/{id}", noteHandler.GetNote)
	r.Get("/notes/{id}/tasks", noteHandler.GetNoteTasks)
	r.Delete("/notes/{id}", noteHandler.DeleteNote)
	r.Get("/tasks", taskHandler.ListTasks)
	r.Patch("/tasks/{id}", taskHandler.UpdateTask)
	r.Get("/tasks/export.csv", taskHandler.ExportTasksCSV)
	return r
}

func testIdentity(tenantID string, role domain.Role) *middleware.Identity {
	return &middleware.Identity{
		TenantID:    tenantID,
		UserID:      "user-" + string(role),
		Email:       string(role) + "@example.com",
		DisplayName: string(role),
		Roles:       []domain.Role{role},
		Flags:       flags.Defaults(false),
	}
}

// serve performs one request against the router with the given identity
// attached. A nil identity simulates a request that skipped the
// middleware. A nil body sends no payload.
func serve(t *testing.T, router http.Handler, identity *middleware.Identity, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), "body: %s", rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	decodeBody(t, rec, &body)
	msg, _ := body["error"].(string)
	return msg
}

// submitNote creates a note with its queued job directly in the store.
func submitNote(t *testing.T, st *jsonfile.Store, tenantID, title, rawText string) (*domain.Note, *domain.Job) {
	t.Helper()
	note, job, err := st.CreateNote(context.Background(), store.CreateNoteParams{
		TenantID:  tenantID,
		Title:     title,
		RawText:   rawText,
		CreatedBy: "user-admin",
	})
	require.NoError(t, err)
	return note, job
}

// suggestTasks attaches suggested tasks to a note the way the worker
// does, returning them in insertion order.
func suggestTasks(t *testing.T, st *jsonfile.Store, tenantID, noteID, jobID string, tasks []store.SuggestedTask) []domain.Task {
	t.Helper()
	created, err := st.ReplaceSuggestedTasksForJob(context.Background(), store.ReplaceSuggestedTasksParams{
		TenantID: tenantID,
		NoteID:   noteID,
		JobID:    jobID,
		Tasks:    tasks,
	})
	require.NoError(t, err)
	return created
}

func auditActions(t *testing.T, st *jsonfile.Store) map[string]int {
	t.Helper()
	snapshot, err := st.GetSnapshot(context.Background())
	require.NoError(t, err)
	counts := map[string]int{}
	for _, event := range snapshot.AuditEvents {
		counts[event.Action]++
	}
	return counts
}
