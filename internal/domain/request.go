package domain

import "errors"

var (
	// ErrInvalidRequest is returned when a request body is malformed or lacks required fields.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound is returned when no route matches the request.
	ErrNotFound = errors.New("not found")
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status string `json:"status"`
}
