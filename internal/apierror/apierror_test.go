package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aebalz/wellmind-tracker/internal/service"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &service.ValidationError{}, http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("%w: user 9", service.ErrNotFound), http.StatusNotFound},
		{"unauthorized", service.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"conflict", service.ErrConflict, http.StatusConflict},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestFromError(t *testing.T) {
	verr := &service.ValidationError{Violations: []service.FieldViolation{{Field: "mood_level", Constraint: "max=10", Message: "must be at most 10"}}}
	resp := FromError(fmt.Errorf("wrapped: %w", verr), "/api/v1/wellness")
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, "Bad Request", resp.Error)
	assert.Equal(t, "/api/v1/wellness", resp.Path)
	assert.Len(t, resp.ValidationErrors, 1)

	internal := FromError(errors.New("pq: password authentication failed"), "/x")
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.NotContains(t, internal.Message, "pq:")
	assert.Empty(t, internal.ValidationErrors)
}
