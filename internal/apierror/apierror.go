// Package apierror provides the standardized error envelope for the API.
// Every 4xx/5xx response goes through this package so the portal widgets can
// always read a "detail" field, and so internals (stack traces, SQL errors)
// never leak to clients.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps per-field errors detected before any side effect.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
