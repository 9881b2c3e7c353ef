package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/weatherapp/internal/infra/logging"
)

//nolint:paralleltest
func TestGetLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	logging.Configure(context.Background(), logging.LoggerConfig{
		Level:        "info",
		JSON:         true,
		OutputHandle: &buf,
	}, "weatherapp.test")

	t.Cleanup(func() {
		logging.Configure(context.Background(), logging.LoggerConfig{Output: "discard"}, "")
	})

	logging.GetLogger("svc.test").Debug("hidden")
	logging.GetLogger("svc.test").Info("visible", "city", "Paris")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))

	assert.Equal(t, "visible", record["msg"])
	assert.Equal(t, "weatherapp.test", record["app"])
	assert.Equal(t, "svc.test", record["logger"])
	assert.Equal(t, "Paris", record["city"])
}

//nolint:paralleltest
func TestGetLogger_ConsolePackageFilter(t *testing.T) {
	var buf bytes.Buffer

	logging.Configure(context.Background(), logging.LoggerConfig{
		Level:        "debug",
		Filter:       "repo:error",
		OutputHandle: &buf,
	}, "weatherapp.test")

	t.Cleanup(func() {
		logging.Configure(context.Background(), logging.LoggerConfig{Output: "discard"}, "")
	})

	buf.Reset()

	logging.GetLogger("repo.user").Info("filtered out")
	logging.GetLogger("svc.authsvc").Info("kept")

	assert.NotContains(t, buf.String(), "filtered out")
	assert.Contains(t, buf.String(), "kept")
}

//nolint:paralleltest
func TestGetLogger_FilterLowersLevel(t *testing.T) {
	var buf bytes.Buffer

	logging.Configure(context.Background(), logging.LoggerConfig{
		Level:        "warn",
		Filter:       "svc.weathersvc:debug, repo.history.sqlite_history_repository:error",
		JSON:         true,
		OutputHandle: &buf,
	}, "weatherapp.test")

	t.Cleanup(func() {
		logging.Configure(context.Background(), logging.LoggerConfig{Output: "discard"}, "")
	})

	logging.GetLogger("svc.weathersvc.weather_provider").Debug("provider debug")
	logging.GetLogger("svc.authsvc").Info("auth info")
	logging.GetLogger("repo.history.sqlite_history_repository").Warn("history warn")
	logging.GetLogger("repo.user").Warn("user warn")

	out := buf.String()
	assert.Contains(t, out, "provider debug")
	assert.NotContains(t, out, "auth info")
	assert.NotContains(t, out, "history warn")
	assert.Contains(t, out, "user warn")
}

func TestConsoleHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	log := slog.New(logging.NewConsoleHandler(&buf, logging.LevelInfo, false, nil))
	log.With("logger", "svc.test").WithGroup("http").Info("response", "status", 200)
	log.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "[INFO] response | logger=svc.test http.status=200")
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "\033[")
	assert.Contains(t, out, "\n-> ")
}
