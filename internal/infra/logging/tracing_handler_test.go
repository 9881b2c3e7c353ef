package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/weatherapp/internal/domain"
	context_ "github.com/mkrupp/weatherapp/internal/infra/context"
	"github.com/mkrupp/weatherapp/internal/infra/logging"
)

func TestTracingHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	log := slog.New(logging.NewTracingHandler(slog.NewJSONHandler(&buf, nil)))

	ctx := context_.WithTraceID(context.Background(), "trace-1")
	ctx = context_.WithSession(ctx, domain.Session{Token: "secret-token", UserID: 3, Username: "alice"})

	log.InfoContext(ctx, "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, map[string]any{"id": "trace-1"}, record["trace"])
	assert.Equal(t, map[string]any{"user_id": float64(3), "username": "alice"}, record["session"])
	assert.NotContains(t, buf.String(), "secret-token")
}

func TestTracingHandler_WithoutContextValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	log := slog.New(logging.NewTracingHandler(slog.NewJSONHandler(&buf, nil)))
	log.InfoContext(context.Background(), "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.NotContains(t, record, "trace")
	assert.NotContains(t, record, "session")
}
