package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Authorization errors
	ErrCodePermissionDenied = "PERMISSION_DENIED"

	// Validation errors
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"

	// Business rule errors
	ErrCodeRoleConflict = "ROLE_CONFLICT"

	// Storage collaborator errors
	ErrCodeStorageFailure = "STORAGE_FAILURE"
	ErrCodeStorageTimeout = "STORAGE_TIMEOUT"

	// Service errors
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation failure reasons, surfaced in APIError.Details.
const (
	ReasonEmptyTitle       = "EMPTY_TITLE"
	ReasonNegativeEstimate = "NEGATIVE_ESTIMATE"
	ReasonInvalidStatus    = "INVALID_STATUS"
	ReasonInvalidPriority  = "INVALID_PRIORITY"
)

// APIError represents a standardized error response. Every command
// failure carries a distinguishable code so callers can branch on it.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(code, message string, details interface{}) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Predefined errors
var (
	ErrUnauthorized     = NewAPIError(ErrCodeUnauthorized, "Authentication required")
	ErrPermissionDenied = NewAPIError(ErrCodePermissionDenied, "Permission denied")
	ErrNotFound         = NewAPIError(ErrCodeNotFound, "Resource not found")
	ErrInvalidInput     = NewAPIError(ErrCodeInvalidInput, "Invalid request body")
	ErrRoleConflict     = NewAPIError(ErrCodeRoleConflict, "Wildcard role is already assigned")
	ErrStorageFailure   = NewAPIError(ErrCodeStorageFailure, "Storage operation failed")
	ErrStorageTimeout   = NewAPIError(ErrCodeStorageTimeout, "Storage operation timed out")
	ErrInternalError    = NewAPIError(ErrCodeInternalError, "Internal server error")
)

// Validation constructs a VALIDATION_ERROR with a machine-readable reason.
func Validation(reason, message string) *APIError {
	return NewAPIErrorWithDetails(ErrCodeValidation, message, gin.H{"reason": reason})
}

// CodeOf extracts the error code if err wraps an APIError.
func CodeOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Respond maps a service error to an HTTP response by its code.
func Respond(c *gin.Context, err error) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		RespondWithError(c, http.StatusInternalServerError, ErrInternalError)
		return
	}

	status := http.StatusInternalServerError
	switch apiErr.Code {
	case ErrCodeUnauthorized, ErrCodeInvalidCredentials:
		status = http.StatusUnauthorized
	case ErrCodePermissionDenied:
		status = http.StatusForbidden
	case ErrCodeValidation, ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case ErrCodeNotFound:
		status = http.StatusNotFound
	case ErrCodeAlreadyExists, ErrCodeRoleConflict:
		status = http.StatusConflict
	case ErrCodeStorageFailure:
		status = http.StatusBadGateway
	case ErrCodeStorageTimeout:
		status = http.StatusGatewayTimeout
	}
	RespondWithError(c, status, apiErr)
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Permission denied"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodePermissionDenied, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeAlreadyExists, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}
