package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourlog/internal/apperr"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperr.Validation("bad"), http.StatusBadRequest},
		{"conflict_is_400", apperr.Conflict("dup"), http.StatusBadRequest},
		{"unauthorized", apperr.Unauthorized("no token"), http.StatusUnauthorized},
		{"forbidden", apperr.Forbidden("nope"), http.StatusForbidden},
		{"not_found", apperr.NotFound("record"), http.StatusNotFound},
		{"internal", apperr.Internal(errors.New("boom")), http.StatusInternalServerError},
		{"plain_error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("ctx: %w", apperr.NotFound("port")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperr.HTTPStatus(tt.err))
		})
	}
}

func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("pq: relation does not exist")
	err := apperr.Internal(cause)

	assert.NotContains(t, err.Error(), "relation")
	assert.ErrorIs(t, err, cause)
}

func TestAs(t *testing.T) {
	err := fmt.Errorf("wrap: %w", apperr.Validation("invalid", apperr.FieldError{Field: "rank", Message: "required"}))

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.KindValidation, ae.Kind)
	assert.Len(t, ae.Details, 1)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Nil(t, apperr.As(errors.New("plain")))
}
