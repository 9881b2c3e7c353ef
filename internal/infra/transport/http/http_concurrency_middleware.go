package http

import (
	"net/http"
)

// ConcurrencyLimitMiddleware lets at most limit requests through at once.
// A limit of zero or less disables the bound.
func ConcurrencyLimitMiddleware(next http.Handler, limit int) http.Handler {
	if limit <= 0 {
		return next
	}

	slots := make(chan struct{}, limit)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case slots <- struct{}{}:
		case <-r.Context().Done():
			return
		}
		defer func() { <-slots }()

		next.ServeHTTP(w, r)
	})
}
