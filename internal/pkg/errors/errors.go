package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code for each error type
type ErrorCode string

const (
	// General errors
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"

	// Input validation errors
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Generation errors
	ErrCodeGenerationFailed ErrorCode = "GENERATION_FAILED"

	// Configuration errors
	ErrCodeUnsupportedProvider ErrorCode = "UNSUPPORTED_PROVIDER"
	ErrCodeMissingCredential   ErrorCode = "MISSING_CREDENTIAL"

	// Database errors
	ErrCodePersistenceFailed ErrorCode = "PERSISTENCE_FAILED"
)

// AppError represents a structured application error
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Err        error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s - %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails adds additional context to the error
func (e *AppError) WithDetails(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an existing error with AppError context
func Wrap(err error, code ErrorCode, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

// Common error constructors

func Internal(message string) *AppError {
	return New(ErrCodeInternal, message, http.StatusInternalServerError)
}

func InternalWrap(err error, message string) *AppError {
	return Wrap(err, ErrCodeInternal, message, http.StatusInternalServerError)
}

func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound,
		fmt.Sprintf("%s not found", resource),
		http.StatusNotFound)
}

func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message, http.StatusBadRequest)
}

// Input validation errors

func InvalidInput(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

// Generation errors

// GenerationFailed is the single failure kind every provider surfaces.
// The root cause stays wrapped for logging; callers only see the code.
func GenerationFailed(err error) *AppError {
	return Wrap(err, ErrCodeGenerationFailed, "failed to generate response", http.StatusInternalServerError)
}

// Configuration errors

func UnsupportedProvider(name string) *AppError {
	return New(ErrCodeUnsupportedProvider,
		fmt.Sprintf("unsupported LLM provider: %s", name),
		http.StatusInternalServerError)
}

func MissingCredential(envVar string) *AppError {
	return New(ErrCodeMissingCredential,
		fmt.Sprintf("%s environment variable is not set", envVar),
		http.StatusInternalServerError)
}

// Database errors

func PersistenceFailed(err error) *AppError {
	return Wrap(err, ErrCodePersistenceFailed, "persistence operation failed", http.StatusInternalServerError)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error chain
func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// HasCode reports whether err carries the given code anywhere in its chain
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := GetAppError(err)
	return ok && appErr.Code == code
}
