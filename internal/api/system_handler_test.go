package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/api"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/domain"
)

func TestHealth(t *testing.T) {
	router := newHandlerRouter(newHandlerStore(t))

	rec := serve(t, router, nil, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body api.HealthResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "0.1.0", body.Version)
	assert.Equal(t, "development", body.Mode)
}

func TestMe(t *testing.T) {
	router := newHandlerRouter(newHandlerStore(t))
	identity := testIdentity("tenant-a", domain.RoleMember)

	rec := serve(t, router, identity, http.MethodGet, "/me", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body api.MeResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, identity.UserID, body.User.ID)
	assert.Equal(t, identity.Email, body.User.Email)
	assert.Equal(t, identity.DisplayName, body.User.DisplayName)
	assert.Equal(t, "tenant-a", body.TenantID)
	assert.Equal(t, []domain.Role{domain.RoleMember}, body.Roles)
}

func TestMeWithoutIdentity(t *testing.T) {
	router := newHandlerRouter(newHandlerStore(t))

	rec := serve(t, router, nil, http.MethodGet, "/me", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Missing auth context.", errorMessage(t, rec))
}
