package errors

import (
	"fmt"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrTypeConnection represents connection-related errors
	ErrTypeConnection ErrorType = "connection"
	// ErrTypeValidation represents validation errors
	ErrTypeValidation ErrorType = "validation"
	// ErrTypeConfig represents configuration errors
	ErrTypeConfig ErrorType = "config"
	// ErrTypeNotFound represents resource not found errors
	ErrTypeNotFound ErrorType = "not_found"
	// ErrTypeInternal represents internal system errors
	ErrTypeInternal ErrorType = "internal"
	// ErrTypeTimeout represents timeout errors
	ErrTypeTimeout ErrorType = "timeout"

	// ErrTypeMalformedInput represents document text that cannot be tokenized
	ErrTypeMalformedInput ErrorType = "malformed_input"
	// ErrTypeMissingSegment represents a required document segment that is absent
	ErrTypeMissingSegment ErrorType = "missing_segment"
	// ErrTypeStructuralMismatch represents trailer totals that disagree with parsed content
	ErrTypeStructuralMismatch ErrorType = "structural_mismatch"
	// ErrTypeUnmappedCode represents a document code with no entry in a lookup table
	ErrTypeUnmappedCode ErrorType = "unmapped_code"
	// ErrTypeMissingParty represents a required party role absent from the document
	ErrTypeMissingParty ErrorType = "missing_party"
	// ErrTypeInvalidDate represents a date element that cannot be normalized
	ErrTypeInvalidDate ErrorType = "invalid_date"
	// ErrTypeRejected represents a terminal rejection from the receiving system
	ErrTypeRejected ErrorType = "rejected"
	// ErrTypeTransient represents a temporary submission failure eligible for retry
	ErrTypeTransient ErrorType = "transient"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType              `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	parts := []string{string(e.Type), e.Message}

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("code=%s", e.Code))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Cause))
	}

	if len(e.Context) > 0 {
		contextParts := make([]string, 0, len(e.Context))
		for k, v := range e.Context {
			contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("context={%s}", strings.Join(contextParts, ", ")))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// ConnectionError creates a new connection error
func ConnectionError(msg string, cause error) *AppError {
	return &AppError{
		Type:    ErrTypeConnection,
		Message: msg,
		Cause:   cause,
	}
}

// ValidationError creates a new validation error
func ValidationError(msg string) *AppError {
	return &AppError{
		Type:    ErrTypeValidation,
		Message: msg,
	}
}

// ConfigError creates a new configuration error
func ConfigError(msg string) *AppError {
	return &AppError{
		Type:    ErrTypeConfig,
		Message: msg,
	}
}

// NotFoundError creates a new not found error
func NotFoundError(resource string) *AppError {
	return &AppError{
		Type:    ErrTypeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// InternalError creates a new internal error
func InternalError(msg string, cause error) *AppError {
	return &AppError{
		Type:    ErrTypeInternal,
		Message: msg,
		Cause:   cause,
	}
}

// TimeoutError creates a new timeout error
func TimeoutError(operation string) *AppError {
	return &AppError{
		Type:    ErrTypeTimeout,
		Message: fmt.Sprintf("timeout during %s", operation),
	}
}

// MalformedInputError creates an error for document text that cannot be tokenized or parsed
func MalformedInputError(msg string, cause error) *AppError {
	return &AppError{
		Type:    ErrTypeMalformedInput,
		Message: msg,
		Cause:   cause,
	}
}

// MissingSegmentError creates an error for a required segment absent from the document
func MissingSegmentError(segmentID string) *AppError {
	return &AppError{
		Type:    ErrTypeMissingSegment,
		Message: fmt.Sprintf("required segment %s not found", segmentID),
		Context: map[string]interface{}{"segment": segmentID},
	}
}

// StructuralMismatchError creates an error carrying the declared and computed values
// that disagree, so callers can diagnose without re-parsing the document.
func StructuralMismatchError(field string, expected, actual int) *AppError {
	return &AppError{
		Type:    ErrTypeStructuralMismatch,
		Message: fmt.Sprintf("%s mismatch: declared %d, found %d", field, expected, actual),
		Context: map[string]interface{}{
			"field":    field,
			"expected": expected,
			"actual":   actual,
		},
	}
}

// SegmentOrderError creates an error for an envelope segment appearing out of order
func SegmentOrderError(segmentID string) *AppError {
	return &AppError{
		Type:    ErrTypeStructuralMismatch,
		Message: fmt.Sprintf("segment %s out of order", segmentID),
		Context: map[string]interface{}{"segment": segmentID},
	}
}

// UnmappedCodeError creates an error for a code with no entry in its lookup table
func UnmappedCodeError(kind, code string) *AppError {
	return &AppError{
		Type:    ErrTypeUnmappedCode,
		Message: fmt.Sprintf("unmapped %s code %q", kind, code),
		Context: map[string]interface{}{"kind": kind, "code": code},
	}
}

// MissingPartyError creates an error for a required party role absent from the document
func MissingPartyError(role string) *AppError {
	return &AppError{
		Type:    ErrTypeMissingParty,
		Message: fmt.Sprintf("required party %q not present in document", role),
		Context: map[string]interface{}{"role": role},
	}
}

// InvalidDateError creates an error for a date element that cannot be normalized
func InvalidDateError(raw string, cause error) *AppError {
	return &AppError{
		Type:    ErrTypeInvalidDate,
		Message: fmt.Sprintf("cannot parse date %q", raw),
		Cause:   cause,
		Context: map[string]interface{}{"raw": raw},
	}
}

// RejectedError creates an error for a terminal rejection by the receiving system
func RejectedError(msg string) *AppError {
	return &AppError{
		Type:    ErrTypeRejected,
		Message: msg,
	}
}

// TransientError creates an error for a temporary submission failure eligible for retry
func TransientError(msg string, cause error) *AppError {
	return &AppError{
		Type:    ErrTypeTransient,
		Message: msg,
		Cause:   cause,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	if err == nil {
		return false
	}

	appErr, ok := err.(*AppError)
	if !ok {
		return false
	}

	return appErr.Type == errType
}

// GetType returns the error type if it's an AppError, otherwise returns ErrTypeInternal
func GetType(err error) ErrorType {
	if err == nil {
		return ""
	}

	appErr, ok := err.(*AppError)
	if !ok {
		return ErrTypeInternal
	}

	return appErr.Type
}
