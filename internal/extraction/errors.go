package extraction

import "errors"

// Common extraction errors.
var (
	// ErrInvalidConfig is returned when a provider cannot be
	// constructed from its configuration.
	ErrInvalidConfig = errors.New("invalid extraction provider configuration")

	// ErrInvalidResponse is returned when a model-backed provider gets
	// a response it cannot parse into tasks.
	ErrInvalidResponse = errors.New("invalid extraction response")

	// ErrContentBlocked is returned when a model-backed provider's
	// request is rejected by safety filtering.
	ErrContentBlocked = errors.New("extraction content blocked")
)
