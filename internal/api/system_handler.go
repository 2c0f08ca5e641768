package api

import (
	"net/http"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/api/middleware"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/api/shared"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/domain"
)

// apiVersion is reported by the health endpoint.
const apiVersion = "0.1.0"

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Mode    string `json:"mode"`
}

// MeResponse is the body of GET /me.
type MeResponse struct {
	User     MeUser        `json:"user"`
	TenantID string        `json:"tenantId"`
	Roles    []domain.Role `json:"roles"`
}

// MeUser is the caller projection inside MeResponse.
type MeUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// SystemHandler serves the health and identity-echo endpoints.
type SystemHandler struct {
	mode string
}

// NewSystemHandler creates a SystemHandler reporting the given mode.
func NewSystemHandler(mode string) *SystemHandler {
	return &SystemHandler{mode: mode}
}

// Health handles GET /health requests.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: apiVersion,
		Mode:    h.mode,
	})
}

// Me handles GET /me requests, echoing the resolved caller identity.
func (h *SystemHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MeResponse{
		User: MeUser{
			ID:          identity.UserID,
			Email:       identity.Email,
			DisplayName: identity.DisplayName,
		},
		TenantID: identity.TenantID,
		Roles:    identity.Roles,
	})
}

// requireIdentity pulls the identity attached by the middleware,
// answering 401 when it is absent.
func requireIdentity(w http.ResponseWriter, r *http.Request) (*middleware.Identity, bool) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Missing auth context.")
		return nil, false
	}
	return identity, true
}

// requireWriteRole answers 403 unless the caller holds the member or
// admin role.
func requireWriteRole(w http.ResponseWriter, r *http.Request, identity *middleware.Identity) bool {
	if !identity.CanWrite() {
		shared.RespondWithError(w, r, http.StatusForbidden, "Member or admin role is required.")
		return false
	}
	return true
}

// requireAdminRole answers 403 unless the caller holds the admin role.
func requireAdminRole(w http.ResponseWriter, r *http.Request, identity *middleware.Identity) bool {
	if !identity.IsAdmin() {
		shared.RespondWithError(w, r, http.StatusForbidden, "Admin role is required.")
		return false
	}
	return true
}
