package dto

import "github.com/erp/purchasing/internal/domain/shared"

// Reserved keys of an error body. Details never overwrite them.
const (
	KeyMessage   = "msg"
	KeyCode      = "code"
	KeyRequestID = "request_id"
)

// ErrorResponse is the JSON body of every failed request:
// {"msg": "...", "code": "ERR_...", "request_id": "..."} plus any detail keys
// the failing layer attached (e.g. required_keys, received_keys).
type ErrorResponse map[string]any

// NewErrorResponse builds an error body
func NewErrorResponse(code, message, requestID string, details map[string]any) ErrorResponse {
	resp := make(ErrorResponse, len(details)+3)
	for k, v := range details {
		resp[k] = v
	}
	resp[KeyMessage] = message
	resp[KeyCode] = code
	if requestID != "" {
		resp[KeyRequestID] = requestID
	}
	return resp
}

// ValidationDetail describes one field that failed binding validation
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewValidationErrorResponse builds a 400 body listing the invalid fields
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) ErrorResponse {
	return NewErrorResponse(ErrCodeValidation, message, requestID, map[string]any{"errors": details})
}

// PageResponse is a paginated list rendered with its items under a
// resource-specific key, e.g. {"products": [...], "page": 1, ...}.
type PageResponse map[string]any

// NewPageResponse renders page with its items under key
func NewPageResponse[T any](key string, page shared.Paginated[T]) PageResponse {
	return PageResponse{
		key:        page.Items,
		"page":     page.Page,
		"per_page": page.PerPage,
		"total":    page.Total,
		"pages":    page.TotalPages,
		"has_next": page.HasNext(),
		"has_prev": page.HasPrev(),
	}
}
