package http_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	http_ "github.com/mkrupp/weatherapp/internal/infra/transport/http"
)

type loggedResponse struct {
	Level string `json:"level"`
	Msg   string `json:"msg"`
	HTTP  struct {
		Path      string `json:"path"`
		Method    string `json:"method"`
		Status    int    `json:"status"`
		BytesSent int    `json:"bytes_sent"`
	} `json:"http"`
}

func TestLoggingMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantLevel string
		wantCode  int
		wantBytes int
	}{
		{
			name: "implicit ok",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("hello"))
			},
			wantLevel: "INFO",
			wantCode:  http.StatusOK,
			wantBytes: 5,
		},
		{
			name: "client error keeps first status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.WriteHeader(http.StatusOK)
			},
			wantLevel: "WARN",
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantLevel: "ERROR",
			wantCode:  http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			handler := http_.LoggingMiddleware(tt.handler, log)

			req := httptest.NewRequest(http.MethodPost, "/weather/current?key=secret", nil)
			handler.ServeHTTP(httptest.NewRecorder(), req)

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.Len(t, lines, 2)
			assert.NotContains(t, buf.String(), "secret")

			var got loggedResponse
			require.NoError(t, json.Unmarshal([]byte(lines[1]), &got))

			assert.Equal(t, "response", got.Msg)
			assert.Equal(t, tt.wantLevel, got.Level)
			assert.Equal(t, "/weather/current", got.HTTP.Path)
			assert.Equal(t, http.MethodPost, got.HTTP.Method)
			assert.Equal(t, tt.wantCode, got.HTTP.Status)
			assert.Equal(t, tt.wantBytes, got.HTTP.BytesSent)
		})
	}
}
