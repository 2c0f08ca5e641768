package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/api/shared"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/domain"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/flags"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/platform/logger"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/store"
)

// Identity headers trusted by the service. There is no token
// verification; an upstream gateway is expected to have authenticated
// the caller.
const (
	HeaderTenantID     = "x-tenant-id"
	HeaderUserID       = "x-user-id"
	HeaderUserEmail    = "x-user-email"
	HeaderUserRoles    = "x-user-roles"
	HeaderFeatureFlags = "x-feature-flags"
)

// devFallbackEmail is the seeded user the development fallback prefers.
const devFallbackEmail = "admin@demo.local"

// Identity is the resolved caller context attached to every request.
type Identity struct {
	TenantID    string
	UserID      string
	Email       string
	DisplayName string
	Roles       []domain.Role
	Flags       flags.Flags
}

// HasRole reports whether the identity carries the given role.
func (id *Identity) HasRole(role domain.Role) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the identity carries the admin role.
func (id *Identity) IsAdmin() bool {
	return id.HasRole(domain.RoleAdmin)
}

// CanWrite reports whether the identity may perform mutating requests.
// Readers are restricted to GET endpoints.
func (id *Identity) CanWrite() bool {
	return id.HasRole(domain.RoleMember) || id.HasRole(domain.RoleAdmin)
}

// identityContextKey is unexported so only this package can attach an
// identity to a context.
type identityContextKey struct{}

// GetIdentity retrieves the identity attached by the middleware.
func GetIdentity(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(*Identity)
	return id, ok
}

// WithIdentity attaches an identity to the context. Exported for
// handler tests that bypass the middleware.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityStore is the persistence surface identity resolution needs.
type IdentityStore interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetMembership(ctx context.Context, tenantID, userID string) (*domain.Membership, error)
	GetSnapshot(ctx context.Context) (*store.Snapshot, error)
}

// IdentityMiddleware derives the caller identity from trusted headers,
// with a development-mode fallback to the seeded admin user.
type IdentityMiddleware struct {
	store      IdentityStore
	production bool
	baseFlags  flags.Flags
	logger     *slog.Logger
}

// NewIdentityMiddleware creates an IdentityMiddleware. baseFlags is the
// environment-resolved flag set that per-request header overrides are
// layered onto.
func NewIdentityMiddleware(
	st IdentityStore,
	production bool,
	baseFlags flags.Flags,
	log *slog.Logger,
) *IdentityMiddleware {
	if log == nil {
		log = slog.Default()
	}
	return &IdentityMiddleware{
		store:      st,
		production: production,
		baseFlags:  baseFlags,
		logger:     log.With(slog.String("component", "identity_middleware")),
	}
}

// Authenticate resolves the caller identity and enforces the reader
// write restriction before passing the request on.
func (m *IdentityMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, status, message := m.resolve(r)
		if identity == nil {
			shared.RespondWithError(w, r, status, message)
			return
		}

		if r.Method != http.MethodGet && !identity.CanWrite() {
			shared.RespondWithError(w, r, http.StatusForbidden,
				"Reader role is restricted to GET endpoints.")
			return
		}

		identity.Flags = flags.Resolve(m.baseFlags, flags.ParseHeader(r.Header.Get(HeaderFeatureFlags)))

		log := logger.FromContextOrDefault(r.Context(), m.logger)
		log.Info("request authenticated",
			slog.String("tenant_id", identity.TenantID),
			slog.String("user_id", identity.UserID))

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// resolve derives the identity from headers. A nil identity comes back
// with the HTTP status and client-safe message to respond with.
func (m *IdentityMiddleware) resolve(r *http.Request) (*Identity, int, string) {
	ctx := r.Context()

	tenantID := strings.TrimSpace(r.Header.Get(HeaderTenantID))
	userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
	email := strings.TrimSpace(r.Header.Get(HeaderUserEmail))

	if tenantID == "" || userID == "" || email == "" {
		if m.production {
			return nil, http.StatusUnauthorized, "Missing required auth headers."
		}
		return m.devFallback(ctx)
	}

	displayName := domain.FallbackDisplayName(email)
	user, err := m.store.GetUserByID(ctx, userID)
	if err == nil {
		displayName = user.DisplayName
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, http.StatusInternalServerError, "Failed to resolve identity."
	}

	roles := parseRoles(r.Header.Get(HeaderUserRoles))
	if len(roles) == 0 {
		membership, err := m.store.GetMembership(ctx, tenantID, userID)
		if err == nil {
			roles = []domain.Role{membership.Role}
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, http.StatusInternalServerError, "Failed to resolve identity."
		}
	}

	if len(roles) == 0 {
		return nil, http.StatusForbidden, "No role mapping found for this user and tenant."
	}

	return &Identity{
		TenantID:    tenantID,
		UserID:      userID,
		Email:       email,
		DisplayName: displayName,
		Roles:       roles,
	}, 0, ""
}

// devFallback resolves the seeded admin (or any first user) when auth
// headers are absent outside production.
func (m *IdentityMiddleware) devFallback(ctx context.Context) (*Identity, int, string) {
	snapshot, err := m.store.GetSnapshot(ctx)
	if err != nil {
		return nil, http.StatusInternalServerError, "Failed to resolve identity."
	}

	var user *domain.User
	for i := range snapshot.Users {
		if strings.EqualFold(snapshot.Users[i].Email, devFallbackEmail) {
			user = &snapshot.Users[i]
			break
		}
	}
	if user == nil && len(snapshot.Users) > 0 {
		user = &snapshot.Users[0]
	}
	if user == nil {
		return nil, http.StatusUnauthorized,
			"Missing auth headers and no fallback user found. Seed the store first."
	}

	var membership *domain.Membership
	for i := range snapshot.Memberships {
		if snapshot.Memberships[i].UserID == user.ID {
			membership = &snapshot.Memberships[i]
			break
		}
	}
	if membership == nil && len(snapshot.Memberships) > 0 {
		membership = &snapshot.Memberships[0]
	}
	if membership == nil {
		return nil, http.StatusUnauthorized,
			"Missing auth headers and no fallback membership found. Seed the store first."
	}

	return &Identity{
		TenantID:    membership.TenantID,
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Roles:       []domain.Role{membership.Role},
	}, 0, ""
}

// parseRoles splits a comma-separated role header, dropping anything
// that is not a known role.
func parseRoles(raw string) []domain.Role {
	if raw == "" {
		return nil
	}

	var roles []domain.Role
	for _, part := range strings.Split(raw, ",") {
		role, ok := domain.ParseRole(strings.TrimSpace(part))
		if !ok {
			continue
		}
		roles = append(roles, role)
	}
	return roles
}
