package pkg

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("%w: password is required", ErrValidation), http.StatusBadRequest},
		{"format", fmt.Errorf("%w: email", ErrInvalidFormat), http.StatusTeapot},
		{"duplicate", ErrDuplicateContact, http.StatusConflict},
		{"authentication", ErrAuthentication, http.StatusUnauthorized},
		{"authorization", ErrAuthorization, http.StatusForbidden},
		{"not found", fmt.Errorf("account: %w", ErrNotFound), http.StatusNotFound},
		{"upstream", fmt.Errorf("%w: status 503", ErrUpstream), http.StatusBadGateway},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapErrorToStatus(tt.err))
		})
	}
}

func TestInvalidFormatIsValidation(t *testing.T) {
	assert.ErrorIs(t, ErrInvalidFormat, ErrValidation)
	assert.NotErrorIs(t, ErrValidation, ErrInvalidFormat)
}

func TestError_HidesDetails(t *testing.T) {
	t.Run("internal", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Error(rec, errors.New("sql: connection refused"))

		var resp APIResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.False(t, resp.Success)
		assert.Equal(t, "internal error", resp.Error)
	})
	t.Run("upstream", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Error(rec, fmt.Errorf("%w: dial tcp 10.0.0.1:443", ErrUpstream))

		var resp APIResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "upstream error", resp.Error)
	})
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]string{"token": "abc"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":{"token":"abc"}}`, rec.Body.String())
}
