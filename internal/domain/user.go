package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for User
var (
	ErrEmptyUserID = errors.New("user ID cannot be empty")
	ErrEmptyEmail  = errors.New("email cannot be empty")
)

// User represents a person known to the system. Users are not scoped to
// a tenant; memberships bind them to tenants. Emails are unique
// case-insensitively.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewUser creates a new User with the given email and display name.
// An empty display name falls back to the local part of the email.
// Returns an error if validation fails.
func NewUser(email, displayName string) (*User, error) {
	if displayName == "" {
		displayName = FallbackDisplayName(email)
	}

	user := &User{
		ID:          uuid.NewString(),
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == "" {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	return nil
}

// FallbackDisplayName derives a display name from the local part of an
// email address. Returns "user" when the email has no local part.
func FallbackDisplayName(email string) string {
	name, _, _ := strings.Cut(email, "@")
	if name == "" {
		return "user"
	}
	return name
}

// validateEmailFormat performs basic validation of email format: one "@"
// with a dot somewhere after it. Header-trust identity means this only
// guards against obviously broken input, not full RFC 5322 compliance.
func validateEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}
