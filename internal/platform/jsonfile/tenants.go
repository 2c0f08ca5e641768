package jsonfile

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/domain"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/store"
)

// CreateTenantWithAdmin implements store.TenantStore.CreateTenantWithAdmin.
// Creator upsert, tenant insert and admin membership land in one write,
// so a tenant is never observable without an admin.
func (s *Store) CreateTenantWithAdmin(
	ctx context.Context,
	params store.CreateTenantParams,
) (*domain.Tenant, error) {
	tenant := &domain.Tenant{
		ID:        uuid.NewString(),
		Name:      params.Name,
		CreatedAt: now(),
	}
	if err := tenant.Validate(); err != nil {
		return nil, err
	}

	displayName := params.CreatorDisplayName
	if displayName == "" {
		displayName = domain.FallbackDisplayName(params.CreatorEmail)
	}

	err := s.update(func(doc *document) error {
		creator := upsertUserInternal(doc, domain.User{
			ID:          params.CreatorUserID,
			Email:       params.CreatorEmail,
			DisplayName: displayName,
			CreatedAt:   now(),
		})

		doc.Tenants = append(doc.Tenants, *tenant)

		upsertMembershipInternal(doc, domain.Membership{
			TenantID:  tenant.ID,
			UserID:    creator.ID,
			Role:      domain.RoleAdmin,
			CreatedAt: now(),
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tenant created",
		slog.String("tenant_id", tenant.ID),
		slog.String("user_id", params.CreatorUserID))
	return tenant, nil
}

// UpsertTenant implements store.TenantStore.UpsertTenant.
func (s *Store) UpsertTenant(ctx context.Context, tenant *domain.Tenant) error {
	if tenant.CreatedAt.IsZero() {
		tenant.CreatedAt = now()
	}
	if err := tenant.Validate(); err != nil {
		return err
	}

	return s.update(func(doc *document) error {
		for i := range doc.Tenants {
			if doc.Tenants[i].ID == tenant.ID {
				doc.Tenants[i] = *tenant
				return nil
			}
		}
		doc.Tenants = append(doc.Tenants, *tenant)
		return nil
	})
}

// ListTenantsForUser implements store.TenantStore.ListTenantsForUser.
// Memberships pointing at a vanished tenant are skipped.
func (s *Store) ListTenantsForUser(ctx context.Context, userID string) ([]store.TenantSummary, error) {
	summaries := []store.TenantSummary{}

	err := s.view(func(doc *document) error {
		for _, membership := range doc.Memberships {
			if membership.UserID != userID {
				continue
			}
			for _, tenant := range doc.Tenants {
				if tenant.ID == membership.TenantID {
					summaries = append(summaries, store.TenantSummary{
						ID:   tenant.ID,
						Name: tenant.Name,
						Role: membership.Role,
					})
					break
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return summaries, nil
}

// UpsertUser implements store.UserStore.UpsertUser.
func (s *Store) UpsertUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	record := *user
	if record.DisplayName == "" {
		record.DisplayName = domain.FallbackDisplayName(record.Email)
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now()
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}

	var stored domain.User
	err := s.update(func(doc *document) error {
		stored = upsertUserInternal(doc, record)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &stored, nil
}

// GetUserByID implements store.UserStore.GetUserByID.
func (s *Store) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	var found *domain.User

	err := s.view(func(doc *document) error {
		for _, user := range doc.Users {
			if user.ID == userID {
				u := user
				found = &u
				return nil
			}
		}
		return store.ErrUserNotFound
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// GetUserByEmail implements store.UserStore.GetUserByEmail.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var found *domain.User

	err := s.view(func(doc *document) error {
		for _, user := range doc.Users {
			if strings.EqualFold(user.Email, email) {
				u := user
				found = &u
				return nil
			}
		}
		return store.ErrUserNotFound
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// AddMembership implements store.MembershipStore.AddMembership, the
// strict variant: a second insert for the same (tenant, user) fails.
func (s *Store) AddMembership(ctx context.Context, membership *domain.Membership) error {
	record := *membership
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now()
	}
	if err := record.Validate(); err != nil {
		return err
	}

	return s.update(func(doc *document) error {
		for _, existing := range doc.Memberships {
			if existing.TenantID == record.TenantID && existing.UserID == record.UserID {
				return store.ErrMembershipExists
			}
		}
		doc.Memberships = append(doc.Memberships, record)
		return nil
	})
}

// UpsertMembership implements store.MembershipStore.UpsertMembership, the
// idempotent variant: an existing membership's role is overwritten.
func (s *Store) UpsertMembership(ctx context.Context, membership *domain.Membership) error {
	record := *membership
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now()
	}
	if err := record.Validate(); err != nil {
		return err
	}

	return s.update(func(doc *document) error {
		upsertMembershipInternal(doc, record)
		return nil
	})
}

// GetMembership implements store.MembershipStore.GetMembership.
func (s *Store) GetMembership(ctx context.Context, tenantID, userID string) (*domain.Membership, error) {
	var found *domain.Membership

	err := s.view(func(doc *document) error {
		for _, membership := range doc.Memberships {
			if membership.TenantID == tenantID && membership.UserID == userID {
				m := membership
				found = &m
				return nil
			}
		}
		return store.ErrMembershipNotFound
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// UpsertMemberByEmail implements store.MembershipStore.UpsertMemberByEmail.
func (s *Store) UpsertMemberByEmail(
	ctx context.Context,
	tenantID, email string,
	role domain.Role,
) (*store.TenantMember, error) {
	if !role.IsValid() {
		return nil, domain.ErrInvalidRole
	}

	var member store.TenantMember
	err := s.update(func(doc *document) error {
		if !tenantExists(doc, tenantID) {
			return store.ErrTenantNotFound
		}

		var user domain.User
		if existing := findUserByEmail(doc, email); existing != nil {
			user = upsertUserInternal(doc, domain.User{
				ID:          existing.ID,
				Email:       email,
				DisplayName: existing.DisplayName,
				CreatedAt:   existing.CreatedAt,
			})
		} else {
			user = upsertUserInternal(doc, domain.User{
				ID:          uuid.NewString(),
				Email:       email,
				DisplayName: domain.FallbackDisplayName(email),
				CreatedAt:   now(),
			})
		}

		membership := upsertMembershipInternal(doc, domain.Membership{
			TenantID:  tenantID,
			UserID:    user.ID,
			Role:      role,
			CreatedAt: now(),
		})

		member = store.TenantMember{
			UserID:      user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Role:        membership.Role,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &member, nil
}

// ListMembersByTenant implements store.MembershipStore.ListMembersByTenant.
// Memberships pointing at a vanished user are skipped.
func (s *Store) ListMembersByTenant(ctx context.Context, tenantID string) ([]store.TenantMember, error) {
	members := []store.TenantMember{}

	err := s.view(func(doc *document) error {
		for _, membership := range doc.Memberships {
			if membership.TenantID != tenantID {
				continue
			}
			for _, user := range doc.Users {
				if user.ID == membership.UserID {
					members = append(members, store.TenantMember{
						UserID:      user.ID,
						Email:       user.Email,
						DisplayName: user.DisplayName,
						Role:        membership.Role,
					})
					break
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return members, nil
}

// upsertUserInternal matches by ID or case-insensitive email and merges,
// keeping the stored creation timestamp. Callers hold the write path.
func upsertUserInternal(doc *document, user domain.User) domain.User {
	for i := range doc.Users {
		if doc.Users[i].ID == user.ID || strings.EqualFold(doc.Users[i].Email, user.Email) {
			merged := domain.User{
				ID:          user.ID,
				Email:       user.Email,
				DisplayName: user.DisplayName,
				CreatedAt:   doc.Users[i].CreatedAt,
			}
			doc.Users[i] = merged
			return merged
		}
	}

	doc.Users = append(doc.Users, user)
	return user
}

// upsertMembershipInternal replaces the role of an existing membership,
// keeping the stored creation timestamp, or appends a new one.
func upsertMembershipInternal(doc *document, membership domain.Membership) domain.Membership {
	for i := range doc.Memberships {
		if doc.Memberships[i].TenantID == membership.TenantID &&
			doc.Memberships[i].UserID == membership.UserID {
			doc.Memberships[i].Role = membership.Role
			return doc.Memberships[i]
		}
	}

	doc.Memberships = append(doc.Memberships, membership)
	return membership
}

func tenantExists(doc *document, tenantID string) bool {
	for _, tenant := range doc.Tenants {
		if tenant.ID == tenantID {
			return true
		}
	}
	return false
}

func findUserByEmail(doc *document, email string) *domain.User {
	for i := range doc.Users {
		if strings.EqualFold(doc.Users[i].Email, email) {
			return &doc.Users[i]
		}
	}
	return nil
}
