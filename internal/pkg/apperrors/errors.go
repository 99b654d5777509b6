package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrPermissionDenied   = errors.New("permission denied")

	// User errors
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrLastDirector      = errors.New("cannot remove the last director")

	// Config errors
	ErrConfigNotFound = errors.New("teacher config not found")

	// Exam errors
	ErrGenerationFailed = errors.New("question generation failed")
	ErrNoQuestions      = errors.New("exam has no questions")
	ErrSessionNotFound  = errors.New("exam session not found")
	ErrSessionFinished  = errors.New("exam session already finished")
)

// Storage errors. ErrStoreNotProvisioned marks remote failures caused by a
// missing database or missing tables, so RetryConnection can classify them
// for the operator. Neither is ever surfaced raw by the arbiter: any remote
// failure triggers failover instead.
var (
	ErrRemoteUnavailable   = errors.New("remote store unavailable")
	ErrStoreNotProvisioned = errors.New("remote store not provisioned")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}
