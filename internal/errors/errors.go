// Package errors provides structured error types for xcellab.
// Generation itself never fails; these errors describe what goes wrong at the
// edges: caller limits, exporters, the schema-suggestion call and configuration.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors by where they surface.
type ErrorCategory string

const (
	ErrCategoryLimit    ErrorCategory = "LIMIT"
	ErrCategoryExport   ErrorCategory = "EXPORT"
	ErrCategorySuggest  ErrorCategory = "SUGGEST"
	ErrCategoryConfig   ErrorCategory = "CONFIG"
	ErrCategoryInternal ErrorCategory = "INTERNAL"
)

// Error codes for each category.
const (
	// Limit codes
	CodeRowLimitExceeded = "ROW_LIMIT_EXCEEDED"
	CodeNotConfirmed     = "NOT_CONFIRMED"

	// Export codes
	CodeExportFailed      = "EXPORT_FAILED"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeUploadFailed      = "UPLOAD_FAILED"

	// Suggest codes
	CodeMissingCredential = "MISSING_CREDENTIAL"
	CodeRequestFailed     = "REQUEST_FAILED"

	// Config codes
	CodeInvalidConfig = "INVALID_CONFIG"

	// Internal codes
	CodeUnexpected = "UNEXPECTED"
)

// XcelError is the structured error type used at the tool's boundaries.
type XcelError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Details  map[string]interface{}
	Cause    error
}

// Error returns a formatted error string.
func (e *XcelError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *XcelError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's category and code.
func (e *XcelError) Is(target error) bool {
	var t *XcelError
	if errors.As(target, &t) {
		return e.Category == t.Category && e.Code == t.Code
	}
	return false
}

// New creates a new XcelError.
func New(category ErrorCategory, code, message string) *XcelError {
	return &XcelError{
		Category: category,
		Code:     code,
		Message:  message,
	}
}

// Wrap creates a new XcelError wrapping an existing error.
func Wrap(category ErrorCategory, code, message string, cause error) *XcelError {
	return &XcelError{
		Category: category,
		Code:     code,
		Message:  message,
		Cause:    cause,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *XcelError) WithDetails(details map[string]interface{}) *XcelError {
	cp := *e
	cp.Details = details
	return &cp
}

// GetCategory extracts the error category from an error chain.
// Returns empty string if the error is not an XcelError.
func GetCategory(err error) ErrorCategory {
	var xe *XcelError
	if errors.As(err, &xe) {
		return xe.Category
	}
	return ""
}

// GetCode extracts the error code from an error chain.
// Returns empty string if the error is not an XcelError.
func GetCode(err error) string {
	var xe *XcelError
	if errors.As(err, &xe) {
		return xe.Code
	}
	return ""
}

func NewLimitError(code, message string) *XcelError {
	return New(ErrCategoryLimit, code, message)
}

func NewExportError(code, message string, cause error) *XcelError {
	return Wrap(ErrCategoryExport, code, message, cause)
}

func NewSuggestError(code, message string, cause error) *XcelError {
	return Wrap(ErrCategorySuggest, code, message, cause)
}

func NewConfigError(message string, cause error) *XcelError {
	return Wrap(ErrCategoryConfig, CodeInvalidConfig, message, cause)
}

func NewInternalError(message string, cause error) *XcelError {
	return Wrap(ErrCategoryInternal, CodeUnexpected, message, cause)
}
