package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// External collaborator errors
var (
	// ErrExternalUnavailable marks a failure of the external messaging
	// provider. It is never surfaced as a top-level failure of a fan-out
	// or reconciliation call: it is recorded per recipient or degrades a
	// discovery source instead.
	ErrExternalUnavailable = errors.New("external messaging provider unavailable")

	// ErrPersistenceFailed marks a failed local write for a single
	// delivery attempt. Kept distinct from ErrExternalUnavailable so a
	// delivery report can tell "provider down" apart from "local
	// persistence broken".
	ErrPersistenceFailed = errors.New("local persistence failed")
)

// Room errors
var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrAlreadyRoomMember = errors.New("user is already a member of this room")
	ErrJoinCodeExhausted = errors.New("could not generate a unique join code")
	ErrInvalidJoinCode   = errors.New("invalid join code")
)

// Message errors
var (
	ErrMessageNotFound = errors.New("message not found")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewExternalUnavailableError wraps a provider failure so callers can match
// it with errors.Is(err, ErrExternalUnavailable).
func NewExternalUnavailableError(message string) error {
	return &CustomError{
		Err:     ErrExternalUnavailable,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
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

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
