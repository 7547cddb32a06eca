package errors

import "fmt"

// ErrorCode identifies a class of application error
type ErrorCode string

const (
	ErrInternalServer             ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrInvalidInput               ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData         ErrorCode = "INVALID_REQUEST_DATA"
	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrForbidden                  ErrorCode = "FORBIDDEN"
	ErrNotFound                   ErrorCode = "NOT_FOUND"
	ErrAlreadyExists              ErrorCode = "ALREADY_EXISTS"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"
	ErrGetFailed                  ErrorCode = "GET_FAILED"

	// Scheduling outcomes surfaced to callers
	ErrNoParticipants        ErrorCode = "NO_PARTICIPANTS"
	ErrInfeasibleConstraints ErrorCode = "INFEASIBLE_CONSTRAINTS"

	// Transient collaborator failures (retryable by the caller)
	ErrCalendarUnavailable ErrorCode = "CALENDAR_UNAVAILABLE"
	ErrLockContended       ErrorCode = "LOCK_CONTENDED"
)

// AppError is a structured application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is a transient collaborator failure
// rather than a caller-correctable input problem.
func (e *AppError) Retryable() bool {
	switch e.Code {
	case ErrCalendarUnavailable, ErrLockContended, ErrInternalServer:
		return true
	}
	return false
}
