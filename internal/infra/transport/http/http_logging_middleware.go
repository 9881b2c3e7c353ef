package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mkrupp/weatherapp/internal/infra/logging"
)

// statusRecorder remembers the first status code and counts the body bytes.
type statusRecorder struct {
	http.ResponseWriter

	status      int
	bytes       int
	wroteHeader bool
}

func (w *statusRecorder) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}

	w.ResponseWriter.WriteHeader(code)
}

// HeaderWritten reports whether the response header was sent.
func (w *statusRecorder) HeaderWritten() bool {
	return w.wroteHeader
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	w.wroteHeader = true

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n

	if err != nil {
		return n, fmt.Errorf("write: %w", err)
	}

	return n, nil
}

func levelForStatus(status int) logging.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return logging.LevelError
	case status >= http.StatusBadRequest:
		return logging.LevelWarn
	default:
		return logging.LevelInfo
	}
}

// LoggingMiddleware logs each request at DEBUG and its response at a level chosen by
// the status: ERROR for 5xx, WARN for 4xx, INFO otherwise. Only the path is logged,
// never the query string.
func LoggingMiddleware(next http.Handler, log logging.Logger) http.Handler {
	//nolint:varnamelen
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		log.DebugContext(r.Context(), "request", slog.Group("http",
			"path", r.URL.Path,
			"method", r.Method,
		))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Log(r.Context(), levelForStatus(rec.status), "response", slog.Group("http",
			"path", r.URL.Path,
			"method", r.Method,
			"status", rec.status,
			"bytes_sent", rec.bytes,
			"duration", time.Since(start),
		))
	})
}
