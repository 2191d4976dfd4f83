package errors

import (
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeProcessing ErrorType = "processing"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeInternal   ErrorType = "internal"
)

// Machine-readable codes surfaced to callers. Fatal codes reject the request
// before any external capability is called; non-fatal codes end up in the
// verdict's error list instead.
const (
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeInvalidPDF       = "INVALID_PDF"
	CodeInvalidPageCount = "INVALID_PAGE_COUNT"
	CodeNoPageImage      = "NO_PAGE_IMAGE"
	CodeExtractionFailed = "EXTRACTION_SERVICE_ERROR"
	CodeFaceMatchFailed  = "FACE_MATCH_SERVICE_ERROR"
	CodeNoFaceDetected   = "NO_FACE_DETECTED"
	CodeProcessingFailed = "PROCESSING_FAILED"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	Fatal      bool      `json:"-"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a fatal request-rejecting error.
func NewValidationError(code, message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Fatal:      true,
		Cause:      cause,
	}
}

// NewPayloadTooLargeError creates a fatal oversized-payload error.
func NewPayloadTooLargeError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       CodeFileTooLarge,
		Message:    message,
		StatusCode: http.StatusRequestEntityTooLarge,
		Fatal:      true,
		Cause:      cause,
	}
}

// NewNetworkError creates a non-fatal upstream transport error.
func NewNetworkError(code, message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeNetwork,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewProcessingError creates a non-fatal capability-level error.
func NewProcessingError(code, message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeProcessing,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewTimeoutError creates a non-fatal upstream timeout error.
func NewTimeoutError(code, message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeTimeout,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

// NewInternalError creates a fatal unexpected failure, surfaced distinctly
// from validation-domain errors.
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       CodeProcessingFailed,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Fatal:      true,
		Cause:      cause,
	}
}

// IsFatal reports whether err is a request-rejecting AppError.
func IsFatal(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Fatal
	}
	return false
}

// GetCode extracts the machine-readable code from an error.
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeProcessingFailed
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
