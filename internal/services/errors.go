package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials hides whether the email or the password was wrong,
	// to prevent account enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountLocked signals temporary lockout after repeated failed attempts
	ErrAccountLocked = errors.New("account temporarily locked due to multiple failed attempts")
	// ErrAccountNotActive is returned when the account exists but is not approved/active
	ErrAccountNotActive = errors.New("account not active")
	// ErrDuplicateEmail is returned when registering an already-registered email
	ErrDuplicateEmail = errors.New("user with this email already exists")
	// ErrUnauthorized is returned when the acting user lacks the admin role
	ErrUnauthorized = errors.New("unauthorized access")
	// ErrInvalidStatus is returned for unknown status transition targets
	ErrInvalidStatus = errors.New("invalid status")
	// ErrNotFound is returned when the requested user does not exist
	ErrNotFound = errors.New("user not found")
)

// ValidationError reports a malformed or missing input field
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf builds a ValidationError
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
