package apierror

import (
	"encoding/json"
	"errors"
)

// Error represents a structured error returned by storefront operations.
type Error struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error codes
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeDuplicateUsername  = "DUPLICATE_USERNAME"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeForbidden          = "FORBIDDEN"
	CodeItemNotFound       = "ITEM_NOT_FOUND"
	CodeChatNotFound       = "CHAT_NOT_FOUND"
	CodeInternal           = "INTERNAL_ERROR"
	CodeUnavailable        = "SERVICE_UNAVAILABLE"
)

// Sentinels for errors.Is. Only the Code is compared.
var (
	ErrValidation         = &Error{Code: CodeValidation}
	ErrDuplicateUsername  = &Error{Code: CodeDuplicateUsername}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials}
	ErrUnauthenticated    = &Error{Code: CodeUnauthenticated}
	ErrForbidden          = &Error{Code: CodeForbidden}
	ErrItemNotFound       = &Error{Code: CodeItemNotFound}
	ErrChatNotFound       = &Error{Code: CodeChatNotFound}
	ErrInternal           = &Error{Code: CodeInternal}
	ErrServiceUnavailable = &Error{Code: CodeUnavailable}
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Message
}

// Is reports whether target carries the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetails adds field-level error details.
func (e *Error) WithDetails(details ...FieldError) *Error {
	e.Details = details
	return e
}

// ExitCode maps the error to a process exit status for the CLI.
func (e *Error) ExitCode() int {
	switch e.Code {
	case CodeValidation:
		return 2
	case CodeUnauthenticated, CodeForbidden, CodeInvalidCredentials:
		return 3
	case CodeItemNotFound, CodeChatNotFound:
		return 4
	case CodeDuplicateUsername:
		return 5
	default:
		return 1
	}
}

// ToJSON converts the error to JSON bytes.
func (e *Error) ToJSON() []byte {
	response := map[string]interface{}{
		"success": false,
		"error": map[string]interface{}{
			"code":    e.Code,
			"message": e.Message,
		},
	}

	if len(e.Details) > 0 {
		response["error"].(map[string]interface{})["details"] = e.Details
	}

	data, _ := json.Marshal(response)
	return data
}

// From extracts an *Error from err, wrapping anything else as an internal error.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return InternalError(err.Error())
}

// ValidationError creates a validation error with optional field details.
func ValidationError(message string, details ...FieldError) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: message,
		Details: details,
	}
}

// DuplicateUsername reports that the username is already registered.
func DuplicateUsername(username string) *Error {
	return &Error{
		Code:    CodeDuplicateUsername,
		Message: "username already exists: " + username,
	}
}

// InvalidCredentials reports a failed login.
func InvalidCredentials() *Error {
	return &Error{
		Code:    CodeInvalidCredentials,
		Message: "invalid credentials",
	}
}

// Unauthenticated reports that an operation requires a session.
func Unauthenticated(message string) *Error {
	if message == "" {
		message = "Authentication required"
	}
	return &Error{
		Code:    CodeUnauthenticated,
		Message: message,
	}
}

// Forbidden reports that the session may not perform the operation.
func Forbidden(message string) *Error {
	if message == "" {
		message = "Access denied"
	}
	return &Error{
		Code:    CodeForbidden,
		Message: message,
	}
}

// ItemNotFound reports an unknown catalog item id.
func ItemNotFound(id string) *Error {
	return &Error{
		Code:    CodeItemNotFound,
		Message: "item not found: " + id,
	}
}

// ChatNotFound reports an unknown chat id.
func ChatNotFound(id string) *Error {
	return &Error{
		Code:    CodeChatNotFound,
		Message: "chat not found: " + id,
	}
}

// InternalError creates an internal error.
func InternalError(message string) *Error {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return &Error{
		Code:    CodeInternal,
		Message: message,
	}
}

// ServiceUnavailable reports a missing or unreachable backing service.
func ServiceUnavailable(message string) *Error {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	return &Error{
		Code:    CodeUnavailable,
		Message: message,
	}
}
