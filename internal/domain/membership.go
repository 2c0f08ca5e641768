package domain

import (
	"errors"
	"time"
)

// Role grants a user a level of access within one tenant.
type Role string

// Possible membership roles, strongest first.
const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleReader Role = "reader"
)

// Common validation errors for Membership
var (
	ErrEmptyMembershipTenantID = errors.New("membership tenant ID cannot be empty")
	ErrEmptyMembershipUserID   = errors.New("membership user ID cannot be empty")
)

// Membership is the (tenant, user, role) binding that grants a user
// access within a tenant. At most one membership exists per
// (tenantID, userID) pair.
type Membership struct {
	TenantID  string    `json:"tenantId"`
	UserID    string    `json:"userId"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewMembership creates a new Membership binding.
// Returns an error if validation fails.
func NewMembership(tenantID, userID string, role Role) (*Membership, error) {
	membership := &Membership{
		TenantID:  tenantID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	if err := membership.Validate(); err != nil {
		return nil, err
	}

	return membership, nil
}

// Validate checks if the Membership has valid data.
func (m *Membership) Validate() error {
	if m.TenantID == "" {
		return ErrEmptyMembershipTenantID
	}

	if m.UserID == "" {
		return ErrEmptyMembershipUserID
	}

	if !m.Role.IsValid() {
		return ErrInvalidRole
	}

	return nil
}

// IsValid reports whether the role is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleReader:
		return true
	default:
		return false
	}
}

// ParseRole converts a string to a Role, reporting whether it is valid.
func ParseRole(value string) (Role, bool) {
	role := Role(value)
	return role, role.IsValid()
}
