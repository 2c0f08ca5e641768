package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Tenant
var (
	ErrEmptyTenantID   = errors.New("tenant ID cannot be empty")
	ErrEmptyTenantName = errors.New("tenant name cannot be empty")
)

// Tenant represents an isolated customer workspace. All domain data
// except users is scoped to exactly one tenant. Tenants are immutable
// after creation; there is no update path.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewTenant creates a new Tenant with a fresh ID and creation timestamp.
// Returns an error if validation fails.
func NewTenant(name string) (*Tenant, error) {
	tenant := &Tenant{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := tenant.Validate(); err != nil {
		return nil, err
	}

	return tenant, nil
}

// Validate checks if the Tenant has valid data.
func (t *Tenant) Validate() error {
	if t.ID == "" {
		return ErrEmptyTenantID
	}

	if t.Name == "" {
		return ErrEmptyTenantName
	}

	return nil
}
