package http

import (
	"net/http"
)

const (
	ContentTypeJSON = "application/json"

	corsAllowOrigin  = "*"
	corsAllowHeaders = "Authorization, Content-Type"
	corsAllowMethods = "GET, POST, OPTIONS"
)

// CORSMiddleware adds the JSON content type and CORS headers to every response.
// Preflight (OPTIONS) requests are answered with 200 and an empty body before routing.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		header.Set("Content-Type", ContentTypeJSON)
		header.Set("Access-Control-Allow-Origin", corsAllowOrigin)
		header.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		header.Set("Access-Control-Allow-Methods", corsAllowMethods)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)

			return
		}

		next.ServeHTTP(w, r)
	})
}
