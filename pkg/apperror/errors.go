package apperror

import (
	"errors"
	"net/http"
)

// Constraint violations. Surfaced to the caller as-is, never retried.
var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")
	ErrSlugTaken     = errors.New("slug already taken")
	ErrUnknownTarget = errors.New("unknown reaction target")
)

// Stale state: the entity exists but no longer accepts this operation.
var (
	ErrRemoved      = errors.New("entity has been removed")
	ErrStoryRemoved = errors.New("story has been removed")
	ErrNotPublished = errors.New("story is not published")
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal server error")

	// ErrConflict is surfaced after a bounded number of retries of a
	// contended write. The operation may be retried by the caller.
	ErrConflict = errors.New("write conflict")

	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// AppError is a custom error type that can hold an HTTP status code
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsConstraintViolation reports whether err is a uniqueness or
// foreign-key violation that the caller must resolve itself.
func IsConstraintViolation(err error) bool {
	return errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrSlugTaken) ||
		errors.Is(err, ErrUnknownTarget)
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) || errors.Is(err, ErrNotPublished) {
		return http.StatusForbidden
	}
	if IsConstraintViolation(err) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrRemoved) || errors.Is(err, ErrStoryRemoved) {
		return http.StatusGone
	}
	if errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrRateLimitExceeded) {
		return http.StatusTooManyRequests
	}
	// Default to internal server error
	return http.StatusInternalServerError
}
