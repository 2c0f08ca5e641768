package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in
	// the store. This is the generic version of the entity-specific not
	// found errors. Tenant-scoped lookups return it for cross-tenant
	// hits too, so absence and denial are indistinguishable to callers.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a
	// duplicate of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrNoJobAvailable is returned by LockNextJob when no eligible
	// queued job exists. Deliberately not a "not found" error: an empty
	// queue is a normal condition, not a missing entity.
	ErrNoJobAvailable = errors.New("no job available")

	// Entity-specific "not found" errors

	// ErrTenantNotFound indicates that the requested tenant does not exist.
	ErrTenantNotFound = fmt.Errorf("%w: tenant", ErrNotFound)

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrMembershipNotFound indicates that no membership exists for the
	// given tenant and user.
	ErrMembershipNotFound = fmt.Errorf("%w: membership", ErrNotFound)

	// ErrNoteNotFound indicates that the requested note does not exist
	// within the caller's tenant.
	ErrNoteNotFound = fmt.Errorf("%w: note", ErrNotFound)

	// ErrTaskNotFound indicates that the requested task does not exist
	// within the caller's tenant.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrJobNotFound indicates that the requested job does not exist.
	ErrJobNotFound = fmt.Errorf("%w: job", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrMembershipExists indicates that a membership already exists for
	// the tenant and user. Only the strict AddMembership returns it;
	// UpsertMembership overwrites silently.
	ErrMembershipExists = fmt.Errorf("%w: membership", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
