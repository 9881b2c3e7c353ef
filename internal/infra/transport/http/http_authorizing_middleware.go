package http

import (
	"net/http"
	"strings"

	"github.com/mkrupp/weatherapp/internal/domain"
	context_ "github.com/mkrupp/weatherapp/internal/infra/context"
	"github.com/mkrupp/weatherapp/internal/infra/logging"
)

const bearerPrefix = "Bearer "

// SessionValidator resolves session tokens.
type SessionValidator interface {
	Validate(token domain.SessionToken) (domain.Session, bool)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// The scheme is case sensitive and followed by exactly one space.
// Returns domain.ErrNoAuthToken for a missing header, another scheme or an empty token.
func BearerToken(r *http.Request) (domain.SessionToken, error) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
	if !ok || token == "" {
		return "", domain.ErrNoAuthToken
	}

	return domain.SessionToken(token), nil
}

// AuthorizingMiddleware creates middleware that validates session tokens.
// Requests without a live session are rejected with 401.
// On success, the session is added to the request context.
func AuthorizingMiddleware(sessions SessionValidator, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r)
			if err != nil {
				log.WarnContext(r.Context(), "no token provided")
				RespondError(w, err)

				return
			}

			session, ok := sessions.Validate(token)
			if !ok {
				log.WarnContext(r.Context(), "invalid token")
				RespondError(w, domain.ErrInvalidAuthToken)

				return
			}

			next.ServeHTTP(w, r.WithContext(context_.WithSession(r.Context(), session)))
		})
	}
}
