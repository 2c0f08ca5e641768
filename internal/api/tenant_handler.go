package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/api/shared"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/domain"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/platform/logger"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/store"
)

// CreateTenantRequest represents the request body for creating a tenant.
type CreateTenantRequest struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
}

// UpsertMemberRequest represents the request body for inviting or
// re-roling a tenant member.
type UpsertMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=admin member reader"`
}

// TenantResponse wraps a single tenant.
type TenantResponse struct {
	Tenant *domain.Tenant `json:"tenant"`
}

// TenantListResponse wraps the caller's tenant summaries.
type TenantListResponse struct {
	Tenants []store.TenantSummary `json:"tenants"`
}

// MemberResponse wraps a single tenant member.
type MemberResponse struct {
	Member *store.TenantMember `json:"member"`
}

// MemberListResponse wraps a tenant's member list.
type MemberListResponse struct {
	Members []store.TenantMember `json:"members"`
}

// TenantStore is the persistence surface the tenant handler needs.
type TenantStore interface {
	store.TenantStore
	store.MembershipStore
	store.AuditStore
}

// TenantHandler handles tenant and membership HTTP requests.
type TenantHandler struct {
	store     TenantStore
	validator *validator.Validate
	logger    *slog.Logger
}

// NewTenantHandler creates a new TenantHandler.
func NewTenantHandler(st TenantStore, log *slog.Logger) *TenantHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TenantHandler{
		store:     st,
		validator: validator.New(),
		logger:    log.With(slog.String("component", "tenant_handler")),
	}
}

// ListTenants handles GET /tenants requests, returning the tenants the
// caller belongs to with their role in each.
func (h *TenantHandler) ListTenants(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	tenants, err := h.store.ListTenantsForUser(r.Context(), identity.UserID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TenantListResponse{Tenants: tenants})
}

// CreateTenant handles POST /tenants requests. The caller becomes the
// new tenant's admin.
func (h *TenantHandler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if !requireWriteRole(w, r, identity) {
		return
	}

	var req CreateTenantRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Malformed JSON body.")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	tenant, err := h.store.CreateTenantWithAdmin(r.Context(), store.CreateTenantParams{
		Name:               req.Name,
		CreatorUserID:      identity.UserID,
		CreatorEmail:       identity.Email,
		CreatorDisplayName: identity.DisplayName,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.audit(r, store.AuditEntry{
		TenantID:    tenant.ID,
		ActorUserID: identity.UserID,
		Action:      "tenant.created",
		EntityType:  domain.AuditEntityTenant,
		EntityID:    tenant.ID,
		Details:     map[string]string{"name": tenant.Name},
	})

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Info("tenant created",
		slog.String("tenant_id", tenant.ID),
		slog.String("user_id", identity.UserID))

	shared.RespondWithJSON(w, r, http.StatusCreated, TenantResponse{Tenant: tenant})
}

// ListMembers handles GET /tenants/{id}/members requests. Admin only;
// a tenant other than the caller's own reads as not found.
func (h *TenantHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if !requireAdminRole(w, r, identity) {
		return
	}

	tenantID := chi.URLParam(r, "id")
	if tenantID != identity.TenantID {
		shared.RespondWithError(w, r, http.StatusNotFound, "Entity not found.")
		return
	}

	members, err := h.store.ListMembersByTenant(r.Context(), tenantID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MemberListResponse{Members: members})
}

// UpsertMember handles POST /tenants/{id}/members requests, inviting a
// new member by email or changing an existing member's role.
func (h *TenantHandler) UpsertMember(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if !requireAdminRole(w, r, identity) {
		return
	}

	tenantID := chi.URLParam(r, "id")
	if tenantID != identity.TenantID {
		shared.RespondWithError(w, r, http.StatusNotFound, "Entity not found.")
		return
	}

	var req UpsertMemberRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Malformed JSON body.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	role, _ := domain.ParseRole(req.Role)
	member, err := h.store.UpsertMemberByEmail(r.Context(), tenantID, req.Email, role)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.audit(r, store.AuditEntry{
		TenantID:    tenantID,
		ActorUserID: identity.UserID,
		Action:      "membership.upserted",
		EntityType:  domain.AuditEntityMembership,
		EntityID:    member.UserID,
		Details: map[string]string{
			"email": member.Email,
			"role":  string(member.Role),
		},
	})

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Info("membership upserted",
		slog.String("tenant_id", tenantID),
		slog.String("user_id", identity.UserID),
		slog.String("member_user_id", member.UserID))

	shared.RespondWithJSON(w, r, http.StatusOK, MemberResponse{Member: member})
}

// audit writes an audit event, logging instead of failing the request
// when the write itself errors.
func (h *TenantHandler) audit(r *http.Request, entry store.AuditEntry) {
	if _, err := h.store.AddAuditEvent(r.Context(), entry); err != nil {
		log := logger.FromContextOrDefault(r.Context(), h.logger)
		log.Error("failed to write audit event",
			slog.String("action", entry.Action),
			slog.String("error", err.Error()))
	}
}
