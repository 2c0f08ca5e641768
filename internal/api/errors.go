package api

import (
	"errors"
	"net/http"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/domain"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors. Cross-tenant reads surface as not found too, so
	// entity existence cannot be probed across tenants.
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	// Handle nil error
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrTenantNotFound):
		return "Tenant not found."

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found."

	case errors.Is(err, store.ErrNoteNotFound):
		return "Note not found."

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found."

	case errors.Is(err, store.ErrJobNotFound):
		return "Job not found."

	case errors.Is(err, store.ErrNotFound):
		return "Entity not found."

	case errors.Is(err, store.ErrMembershipExists):
		return "Membership already exists."

	case errors.Is(err, store.ErrDuplicate):
		return "Entity already exists."

	case errors.Is(err, domain.ErrValidation):
		return "Validation error."

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}
