package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	// Authentication errors
	ErrorCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrorCodeInvalidEmail       ErrorCode = "AUTH_002"
	ErrorCodeInvalidPassword    ErrorCode = "AUTH_003"
	ErrorCodeInvalidToken       ErrorCode = "AUTH_005"
	ErrorCodeExpiredToken       ErrorCode = "AUTH_006"
	ErrorCodeUnauthorized       ErrorCode = "AUTH_008"
	ErrorCodeForbidden          ErrorCode = "AUTH_009"

	// Resource errors
	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"
	ErrorCodeResourceInvalid       ErrorCode = "RES_003"
	ErrorCodeConflict              ErrorCode = "RES_004"

	// Validation errors
	ErrorCodeValidationFailed ErrorCode = "VAL_001"
	ErrorCodeBadRequest       ErrorCode = "VAL_002"

	// Server errors
	ErrorCodeInternalServer       ErrorCode = "SRV_001"
	ErrorCodeDatabaseError        ErrorCode = "SRV_002"
	ErrorCodeExternalServiceError ErrorCode = "SRV_003"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

// Severity levels
const (
	ErrorSeverityWarning ErrorSeverity = "WARNING"
	ErrorSeverityError   ErrorSeverity = "ERROR"
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code     ErrorCode     `json:"code"`
	Message  string        `json:"message"`
	Field    string        `json:"field,omitempty"`
	Severity ErrorSeverity `json:"severity"`
	Details  interface{}   `json:"details,omitempty"`
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:     code,
		Message:  message,
		Severity: ErrorSeverityError,
	}
}

// WithField adds a field name to the error detail
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

// WithSeverity sets the severity level of the error
func (e *ErrorDetail) WithSeverity(severity ErrorSeverity) *ErrorDetail {
	e.Severity = severity
	return e
}

// WithDetails adds additional details to the error
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// FieldError describes one failed binding rule
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// HandleValidationError converts a binding error into an ErrorDetail
func HandleValidationError(err error) *ErrorDetail {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field: jsonFieldName(fe.Field()),
				Rule:  fe.Tag(),
				Param: fe.Param(),
			})
		}
		return NewErrorDetail(ErrorCodeValidationFailed, validationMessage(fields[0])).
			WithField(fields[0].Field).
			WithDetails(fields)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return NewErrorDetail(ErrorCodeBadRequest, "Request body is empty")
	case errors.As(err, &syntaxErr):
		return NewErrorDetail(ErrorCodeBadRequest, "Request body is not valid JSON")
	case errors.As(err, &typeErr):
		return NewErrorDetail(ErrorCodeBadRequest, fmt.Sprintf("Field %s has the wrong type", typeErr.Field)).
			WithField(typeErr.Field)
	}

	return NewErrorDetail(ErrorCodeBadRequest, "Invalid request").WithDetails(err.Error())
}

func validationMessage(fe FieldError) string {
	switch fe.Rule {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field)
	case "password":
		return fmt.Sprintf("%s must be at least 8 characters and contain a letter and a digit", fe.Field)
	case "min", "max":
		return fmt.Sprintf("%s must satisfy %s=%s", fe.Field, fe.Rule, fe.Param)
	case "comment_type":
		return fmt.Sprintf("%s must be material or profile", fe.Field)
	}
	return fmt.Sprintf("%s is invalid", fe.Field)
}

// jsonFieldName lowercases the first letter of a Go field name ("ReferenceID" -> "referenceID").
func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
