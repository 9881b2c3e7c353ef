package http

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/mkrupp/weatherapp/internal/domain"
	"github.com/mkrupp/weatherapp/internal/infra/logging"
)

// RescueingMiddleware creates middleware that recovers from panics in HTTP handlers.
// It logs the panic and stack trace, then returns a JSON 500 response to the client
// unless the handler already sent its header.
func RescueingMiddleware(next http.Handler, log logging.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func(ctx context.Context) {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler { //nolint:errorlint,err113
					panic(p)
				}

				log.ErrorContext(ctx, "request panic", slog.Group("http",
					"path", r.URL.Path,
					"method", r.Method,
				), slog.Group("error",
					"panic", p,
					"stack", string(debug.Stack()),
				))

				if rec.HeaderWritten() {
					return
				}

				_ = WriteJSON(w, http.StatusInternalServerError, domain.ErrorResponse{Error: "internal server error"})
			}
		}(r.Context())
		next.ServeHTTP(rec, r)
	})
}
