package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode identifies a specific failure condition in the domain.
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeAccessDenied ErrorCode = "ACCESS_DENIED"

	// Session lifecycle errors
	CodeSessionNotActive     ErrorCode = "SESSION_NOT_ACTIVE"
	CodeSessionExpired       ErrorCode = "SESSION_EXPIRED"
	CodeIncompleteSubmission ErrorCode = "INCOMPLETE_SUBMISSION"

	// Quiz assembly errors
	CodeGenerationFailed ErrorCode = "GENERATION_FAILED"

	// Auth errors
	CodeDuplicateUser      ErrorCode = "DUPLICATE_USER"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
)

// DomainError is the structured error returned at every public operation
// boundary. Context carries machine-readable detail (e.g. answered/required
// counts on an incomplete submission).
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
	Cause   error                  `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper constructors for the common conditions.

func NewNotFoundError(resource string) *DomainError {
	return NewError(CodeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewAccessDeniedError is returned when the caller's tenant does not match the
// tenant named in the request. The message stays generic so responses never
// confirm what exists in another tenant.
func NewAccessDeniedError() *DomainError {
	return NewError(CodeAccessDenied, "access denied: user does not belong to this tenant", nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewValidationError(message string) *DomainError {
	return NewError(CodeValidation, message, nil)
}

func NewSessionNotActiveError(status SessionStatus) *DomainError {
	err := NewError(CodeSessionNotActive, "quiz session is not active", nil)
	err.Context = map[string]interface{}{"status": string(status)}
	return err
}

func NewSessionExpiredError() *DomainError {
	return NewError(CodeSessionExpired, "quiz time has expired", nil)
}

func NewIncompleteSubmissionError(answered, required int) *DomainError {
	err := NewError(CodeIncompleteSubmission,
		fmt.Sprintf("you must answer all %d questions, you have answered %d", required, answered), nil)
	err.Context = map[string]interface{}{
		"answered": answered,
		"required": required,
	}
	return err
}

func NewGenerationFailedError(topic string, cause error) *DomainError {
	return NewError(CodeGenerationFailed,
		fmt.Sprintf("failed to generate enough questions for topic %q", topic), cause)
}

func NewDuplicateUserError() *DomainError {
	return NewError(CodeDuplicateUser, "user already exists in this tenant", nil)
}

func NewInvalidCredentialsError() *DomainError {
	return NewError(CodeInvalidCredentials, "invalid credentials", nil)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

// ValidationFieldError is a single field-level validation failure.
type ValidationFieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationFieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates field-level failures for one request.
type ValidationErrors []ValidationFieldError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", e[0].Error())
}

func NewMissingFieldError(field string) ValidationFieldError {
	return ValidationFieldError{Field: field, Message: "is required"}
}

func NewInvalidFormatError(field, value string) ValidationFieldError {
	return ValidationFieldError{Field: field, Message: fmt.Sprintf("has invalid format: %q", value)}
}

func NewOutOfRangeError(field string, value, min, max int) ValidationFieldError {
	return ValidationFieldError{Field: field, Message: fmt.Sprintf("must be between %d and %d, got %d", min, max, value)}
}
