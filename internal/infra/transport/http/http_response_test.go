package http_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/weatherapp/internal/domain"
	"github.com/mkrupp/weatherapp/internal/infra/logging"
	http_ "github.com/mkrupp/weatherapp/internal/infra/transport/http"
)

func TestErrorStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "invalid credentials",
			err:        errors.Join(domain.ErrInvalidCredentials, domain.ErrUserNotFound),
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "invalid credentials",
		},
		{
			name:       "no token",
			err:        domain.ErrNoAuthToken,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "unauthorized",
		},
		{
			name:       "invalid token",
			err:        fmt.Errorf("validate: %w", domain.ErrInvalidAuthToken),
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "unauthorized",
		},
		{
			name:       "not found",
			err:        domain.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantMsg:    "not found",
		},
		{
			name:       "anything else",
			err:        errors.New("database is locked"),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "database is locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			status, msg := http_.ErrorStatus(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestRespondError_Nil(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	http_.RespondError(rec, nil)

	assert.Empty(t, rec.Body.String())
	assert.False(t, rec.Flushed)
}

func TestRespondError_AfterHeaderSent(t *testing.T) {
	t.Parallel()

	// chan values cannot be encoded, so the header is out before the error is known
	handler := http_.RescueingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		err := http_.WriteJSON(w, http.StatusOK, map[string]any{"c": make(chan int)})
		require.Error(t, err)

		http_.RespondError(w, err)
	}), logging.NewNopLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "error")
}

func TestRescueingMiddleware_PanicAfterBody(t *testing.T) {
	t.Parallel()

	handler := http_.RescueingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = http_.WriteJSON(w, http.StatusOK, domain.HealthResponse{Status: "ok"})

		panic("late")
	}), logging.NewNopLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"city":"Berlin"}`},
		{name: "malformed", body: `{"city":`, wantErr: "invalid request: "},
		{name: "number for string", body: `{"city":5}`, wantErr: `invalid request: field "city" must be a string`},
		{name: "object for string", body: `{"city":{}}`, wantErr: `invalid request: field "city" must be a string`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/weather/current", strings.NewReader(tt.body))

			var got domain.WeatherRequest

			err := http_.DecodeJSON(req, &got)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "Berlin", got.City)

				return
			}

			require.ErrorIs(t, err, domain.ErrInvalidRequest)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.NotContains(t, err.Error(), "Go ")
			assert.NotContains(t, err.Error(), "WeatherRequest")
		})
	}
}
