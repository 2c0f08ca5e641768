package api_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/api"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/domain"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/flags"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/store"
)

func TestCreateNote(t *testing.T) {
	st := newHandlerStore(t)
	router := newHandlerRouter(st)
	identity := testIdentity("tenant-a", domain.RoleMember)

	rec := serve(t, router, identity, http.MethodPost, "/notes", map[string]string{
		"title":   "  Q1 planning sync  ",
		"rawText": "ACTION: Finalize plan",
	})

	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	var body api.NoteSubmissionResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "Q1 planning sync", body.Note.Title, "title is trimmed")
	assert.Equal(t, domain.NoteStatusSubmitted, body.Note.Status)
	assert.Equal(t, identity.UserID, body.Note.CreatedBy)
	require.NotNil(t, body.Job)
	assert.Equal(t, domain.JobStatusQueued, body.Job.Status)
	assert.Equal(t, body.Note.ID, body.Job.NoteID)

	assert.Equal(t, 1, auditActions(t, st)["note.submitted"])
}

func TestCreateNoteValidation(t *testing.T) {
	router := newHandlerRouter(newHandlerStore(t))
	identity := testIdentity("tenant-a", domain.RoleMember)

	tests := []struct {
		name string
		body map[string]string
	}{
		{name: "blank title", body: map[string]string{"title": "   ", "rawText": "something"}},
		{name: "blank raw text", body: map[string]string{"title": "Standup", "rawText": " "}},
		{name: "missing raw text", body: map[string]string{"title": "Standup"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(t, router, identity, http.MethodPost, "/notes", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, errorMessage(t, rec), "Validation error")
		})
	}
}

func TestCreateNoteRequiresWriteRole(t *testing.T) {
	router := newHandlerRouter(newHandlerStore(t))

	rec := serve(t, router, testIdentity("tenant-a", domain.RoleReader), http.MethodPost, "/notes",
		map[string]string{"title": "Standup", "rawText": "notes"})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Member or admin role is required.", errorMessage(t, rec))
}

func TestListNotes(t *testing.T) {
	st := newHandlerStore(t)
	router := newHandlerRouter(st)
	identity := testIdentity("tenant-a", domain.RoleMember)

	for i := 0; i < 3; i++ {
		submitNote(t, st, "tenant-a", fmt.Sprintf("Note %d", i), "text")
	}
	submitNote(t, st, "tenant-b", "Other tenant", "text")

	rec := serve(t, router, identity, http.MethodGet, "/notes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body api.NoteListResponse
	decodeBody(t, rec, &body)
	assert.Len(t, body.Notes, 3, "other tenants' notes are invisible")

	rec = serve(t, router, identity, http.MethodGet, "/notes?limit=2&offset=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &body)
	assert.Len(t, body.Notes, 2)
}

func TestListNotesQueryValidation(t *testing.T) {
	router := newHandlerRouter(newHandlerStore(t))
	identity := testIdentity("tenant-a", domain.RoleMember)

	tests := []struct {
		name   string
		target string
		param  string
	}{
		{name: "limit zero", target: "/notes?limit=0", param: "limit"},
		{name: "limit over cap", target: "/notes?limit=101", param: "limit"},
		{name: "limit not a number", target: "/notes?limit=ten", param: "limit"},
		{name: "negative offset", target: "/notes?offset=-1", param: "offset"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(t, router, identity, http.MethodGet, tc.target, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Validation error: invalid query parameter "+tc.param, errorMessage(t, rec))
		})
	}
}

func TestGetNote(t *testing.T) {
	st := newHandlerStore(t)
	router := newHandlerRouter(st)
	note, _ := submitNote(t, st, "tenant-a", "Standup", "notes")

	rec := serve(t, router, testIdentity("tenant-a", domain.RoleReader), http.MethodGet, "/notes/"+note.ID, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body api.NoteResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, note.ID, body.Note.ID)
	assert.Equal(t, "Standup", body.Note.Title)
}

func TestGetNoteCrossTenantReadsAsNotFound(t *testing.T) {
	st := newHandlerStore(t)
	router := newHandlerRouter(st)
	note, _ := submitNote(t, st, "tenant-b", "Secret", "text")

	rec := serve(t, router, testIdentity("tenant-a", domain.RoleAdmin), http.MethodGet, "/notes/"+note.ID, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Note not found.", errorMessage(t, rec))
}

func TestGetNoteTasks(t *testing.T) {
	st := newHandlerStore(t)
	router := newHandlerRouter(st)
	note, job := submitNote(t, st, "tenant-a", "Standup", "text")
	suggestTasks(t, st, "tenant-a", note.ID, job.ID, []store.SuggestedTask{
		{Title: "Finalize plan", Owner: "Priya", Confidence: 0.8},
		{Title: "Send recap", Confidence: 0.6},
	})

	rec := serve(t, router, testIdentity("tenant-a", domain.RoleReader), http.MethodGet, "/notes/"+note.ID+"/tasks", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body api.TaskListResponse
	decodeBody(t, rec, &body)
	require.Len(t, body.Tasks, 2)
	assert.Equal(t, "Finalize plan", body.Tasks[0].Title)
	assert.Equal(t, note.ID, body.Tasks[0].NoteID)
}

func TestDeleteNoteFlagOff(t *testing.T) {
	st := newHandlerStore(t)
	router := newHandlerRouter(st)
	note, _ := submitNote(t, st, "tenant-a", "Standup", "text")

	// Even an admin against an existing note sees a 404 while the
	// notes.allowDelete flag is off.
	rec := serve(t, router, testIdentity("tenant-a", domain.RoleAdmin), http.MethodDelete, "/notes/"+note.ID, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Note not found.", errorMessage(t, rec))

	_, err := st.GetNoteByIDForTenant(context.Background(), "tenant-a", note.ID)
	assert.NoError(t, err, "the note is untouched")
}

func TestDeleteNoteFlagOnRequiresAdmin(t *testing.T) {
	st := newHandlerStore(t)
	router := newHandlerRouter(st)
	note, _ := submitNote(t, st, "tenant-a", "Standup", "text")

	identity := testIdentity("tenant-a", domain.RoleMember)
	identity.Flags = flags.Resolve(identity.Flags, flags.Flags{flags.KeyNotesAllowDelete: true})

	rec := serve(t, router, identity, http.MethodDelete, "/notes/"+note.ID, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Admin role is required.", errorMessage(t, rec))
}

func TestDeleteNote(t *testing.T) {
	st := newHandlerStore(t)
	router := newHandlerRouter(st)
	note, _ := submitNote(t, st, "tenant-a", "Standup", "text")

	identity := testIdentity("tenant-a", domain.RoleAdmin)
	identity.Flags = flags.Resolve(identity.Flags, flags.Flags{flags.KeyNotesAllowDelete: true})

	rec := serve(t, router, identity, http.MethodDelete, "/notes/"+note.ID, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body api.NoteDeletedResponse
	decodeBody(t, rec, &body)
	assert.True(t, body.Deleted)
	assert.Equal(t, note.ID, body.NoteID)

	_, err := st.GetNoteByIDForTenant(context.Background(), "tenant-a", note.ID)
	assert.ErrorIs(t, err, store.ErrNoteNotFound)
	assert.Equal(t, 1, auditActions(t, st)["note_deleted"])
}

func TestCreateNoteMalformedBody(t *testing.T) {
	router := newHandlerRouter(newHandlerStore(t))
	identity := testIdentity("tenant-a", domain.RoleMember)

	rec := serve(t, router, identity, http.MethodPost, "/notes", "not an object")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Malformed JSON body.", errorMessage(t, rec))
}
