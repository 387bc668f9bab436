// Package apierror renders the JSON error body shared by every HTTP surface.
package apierror

import (
	"errors"
	"net/http"
	"time"

	"github.com/aebalz/wellmind-tracker/internal/service"
)

// Response is the error body returned by the API.
type Response struct {
	Timestamp        time.Time                `json:"timestamp"`
	Status           int                      `json:"status"`
	Error            string                   `json:"error"`
	Message          string                   `json:"message"`
	Path             string                   `json:"path"`
	ValidationErrors []service.FieldViolation `json:"validation_errors,omitempty"`
}

// New builds a Response for status.
func New(status int, message, path string) Response {
	return Response{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      path,
	}
}

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FromError builds the Response for err. Internal errors are not echoed to
// the client.
func FromError(err error, path string) Response {
	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "an unexpected error occurred"
	}

	resp := New(status, message, path)
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		resp.Message = "request validation failed"
		resp.ValidationErrors = verr.Violations
	}
	return resp
}
