package shared

import "fmt"

// Error codes understood by the HTTP boundary
const (
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeForbidden      = "FORBIDDEN"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeConflict       = "CONFLICT"
	CodeInternal       = "INTERNAL"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Details carries structured context rendered next to the message (e.g. required keys)
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is(err, ErrNotFound) matches any not-found error.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetail returns a copy of the error carrying an extra detail entry
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{Code: e.Code, Message: e.Message, Details: details}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewNotFoundError creates a NOT_FOUND error with a formatted message
func NewNotFoundError(format string, args ...any) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf(format, args...))
}

// NewInvalidRequestError creates an INVALID_REQUEST error with a formatted message
func NewInvalidRequestError(format string, args ...any) *DomainError {
	return NewDomainError(CodeInvalidRequest, fmt.Sprintf(format, args...))
}

// NewConflictError creates a CONFLICT error with a formatted message
func NewConflictError(format string, args ...any) *DomainError {
	return NewDomainError(CodeConflict, fmt.Sprintf(format, args...))
}

// Common domain errors
var (
	ErrNotFound       = NewDomainError(CodeNotFound, "resource not found")
	ErrInvalidRequest = NewDomainError(CodeInvalidRequest, "invalid request")
	ErrForbidden      = NewDomainError(CodeForbidden, "only employees can perform this action")
	ErrUnauthorized   = NewDomainError(CodeUnauthorized, "authentication required")
	ErrConflict       = NewDomainError(CodeConflict, "resource was modified by another request")
	ErrInternal       = NewDomainError(CodeInternal, "internal server error")
	ErrPageNotFound   = NewDomainError(CodeNotFound, "page not found")
)
