package services

import "errors"

var (
	// ErrNotFound means the id was well-formed but no record matched.
	ErrNotFound = errors.New("not found")
	// ErrAccessDenied means an ownership or role rule was violated.
	ErrAccessDenied = errors.New("access denied")
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnavailable means a dependency (database, circuit breaker) failed.
	ErrUnavailable = errors.New("service unavailable")
)

// ValidationError reports a malformed or unacceptable field.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
