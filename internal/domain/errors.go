package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidRole is returned when a membership role is not one of
	// admin, member or reader.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidNoteStatus is returned when a note status is not valid.
	ErrInvalidNoteStatus = errors.New("invalid note status")

	// ErrInvalidTaskStatus is returned when a task status is not valid.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrInvalidJobStatus is returned when a job status is not valid.
	ErrInvalidJobStatus = errors.New("invalid job status")

	// ErrInvalidConfidence is returned when a task confidence falls
	// outside the [0, 1] range.
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")
)
