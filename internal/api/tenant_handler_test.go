package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/api"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/domain"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/platform/jsonfile"
)

// seedTenant installs a tenant with one membership for the identity's
// user so membership endpoints have something to operate on.
func seedTenant(t *testing.T, st *jsonfile.Store, tenantID, userID, email string, role domain.Role) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, st.UpsertTenant(ctx, &domain.Tenant{ID: tenantID, Name: "Tenant " + tenantID}))
	_, err := st.UpsertUser(ctx, &domain.User{
		ID:          userID,
		Email:       email,
		DisplayName: domain.FallbackDisplayName(email),
	})
	require.NoError(t, err)
	require.NoError(t, st.UpsertMembership(ctx, &domain.Membership{
		TenantID: tenantID,
		UserID:   userID,
		Role:     role,
	}))
}

func TestCreateTenant(t *testing.T) {
	st := newHandlerStore(t)
	router := newHandlerRouter(st)
	identity := testIdentity("tenant-a", domain.RoleMember)

	rec := serve(t, router, identity, http.MethodPost, "/tenants", map[string]string{
		"name": "  Acme Corp  ",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body api.TenantResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "Acme Corp", body.Tenant.Name, "name is trimmed")
	assert.NotEmpty(t, body.Tenant.ID)

	// The creator is the new tenant's admin.
	membership, err := st.GetMembership(context.Background(), body.Tenant.ID, identity.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, membership.Role)

	assert.Equal(t, 1, auditActions(t, st)["tenant.created"])
}

func TestCreateTenantValidation(t *testing.T) {
	router := newHandlerRouter(newHandlerStore(t))
	identity := testIdentity("tenant-a", domain.RoleMember)

	rec := serve(t, router, identity, http.MethodPost, "/tenants", map[string]string{"name": "   "})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "Validation error")
}

func TestCreateTenantRequiresWriteRole(t *testing.T) {
	router := newHandlerRouter(newHandlerStore(t))

	rec := serve(t, router, testIdentity("tenant-a", domain.RoleReader), http.MethodPost, "/tenants",
		map[string]string{"name": "Acme Corp"})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Member or admin role is required.", errorMessage(t, rec))
}

func TestListTenants(t *testing.T) {
	st := newHandlerStore(t)
	router := newHandlerRouter(st)
	identity := testIdentity("tenant-a", domain.RoleMember)
	seedTenant(t, st, "tenant-a", identity.UserID, identity.Email, domain.RoleMember)
	seedTenant(t, st, "tenant-b", "someone-else", "else@example.com", domain.RoleAdmin)

	rec := serve(t, router, identity, http.MethodGet, "/tenants", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body api.TenantListResponse
	decodeBody(t, rec, &body)
	require.Len(t, body.Tenants, 1, "only tenants the caller belongs to")
	assert.Equal(t, "tenant-a", body.Tenants[0].ID)
	assert.Equal(t, domain.RoleMember, body.Tenants[0].Role)
}

func TestListMembers(t *testing.T) {
	st := newHandlerStore(t)
	router := newHandlerRouter(st)
	identity := testIdentity("tenant-a", domain.RoleAdmin)
	seedTenant(t, st, "tenant-a", identity.UserID, identity.Email, domain.RoleAdmin)
	seedTenant(t, st, "tenant-a", "user-2", "pat@example.com", domain.RoleReader)

	rec := serve(t, router, identity, http.MethodGet, "/tenants/tenant-a/members", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body api.MemberListResponse
	decodeBody(t, rec, &body)
	assert.Len(t, body.Members, 2)
}

func TestListMembersRequiresAdmin(t *testing.T) {
	router := newHandlerRouter(newHandlerStore(t))

	rec := serve(t, router, testIdentity("tenant-a", domain.RoleMember), http.MethodGet,
		"/tenants/tenant-a/members", nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Admin role is required.", errorMessage(t, rec))
}

func TestListMembersForeignTenantReadsAsNotFound(t *testing.T) {
	st := newHandlerStore(t)
	router := newHandlerRouter(st)
	seedTenant(t, st, "tenant-b", "user-2", "pat@example.com", domain.RoleAdmin)

	rec := serve(t, router, testIdentity("tenant-a", domain.RoleAdmin), http.MethodGet,
		"/tenants/tenant-b/members", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Entity not found.", errorMessage(t, rec))
}

func TestUpsertMember(t *testing.T) {
	st := newHandlerStore(t)
	router := newHandlerRouter(st)
	identity := testIdentity("tenant-a", domain.RoleAdmin)
	seedTenant(t, st, "tenant-a", identity.UserID, identity.Email, domain.RoleAdmin)

	rec := serve(t, router, identity, http.MethodPost, "/tenants/tenant-a/members", map[string]string{
		"email": "new@example.com",
		"role":  "member",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body api.MemberResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "new@example.com", body.Member.Email)
	assert.Equal(t, domain.RoleMember, body.Member.Role)
	assert.NotEmpty(t, body.Member.UserID, "a user is created for an unknown email")

	// Re-inviting with a different role changes the role in place.
	rec = serve(t, router, identity, http.MethodPost, "/tenants/tenant-a/members", map[string]string{
		"email": "new@example.com",
		"role":  "reader",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated api.MemberResponse
	decodeBody(t, rec, &updated)
	assert.Equal(t, body.Member.UserID, updated.Member.UserID)
	assert.Equal(t, domain.RoleReader, updated.Member.Role)

	assert.Equal(t, 2, auditActions(t, st)["membership.upserted"])
}

func TestUpsertMemberValidation(t *testing.T) {
	st := newHandlerStore(t)
	router := newHandlerRouter(st)
	identity := testIdentity("tenant-a", domain.RoleAdmin)
	seedTenant(t, st, "tenant-a", identity.UserID, identity.Email, domain.RoleAdmin)

	tests := []struct {
		name string
		body map[string]string
	}{
		{name: "bad email", body: map[string]string{"email": "not-an-email", "role": "member"}},
		{name: "unknown role", body: map[string]string{"email": "new@example.com", "role": "owner"}},
		{name: "missing role", body: map[string]string{"email": "new@example.com"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(t, router, identity, http.MethodPost, "/tenants/tenant-a/members", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, errorMessage(t, rec), "Validation error")
		})
	}
}

func TestUpsertMemberForeignTenantReadsAsNotFound(t *testing.T) {
	router := newHandlerRouter(newHandlerStore(t))

	rec := serve(t, router, testIdentity("tenant-a", domain.RoleAdmin), http.MethodPost,
		"/tenants/tenant-b/members", map[string]string{"email": "new@example.com", "role": "member"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Entity not found.", errorMessage(t, rec))
}
