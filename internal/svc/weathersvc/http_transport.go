package weathersvc

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkrupp/weatherapp/internal/domain"
	context_ "github.com/mkrupp/weatherapp/internal/infra/context"
	"github.com/mkrupp/weatherapp/internal/infra/logging"
	http_ "github.com/mkrupp/weatherapp/internal/infra/transport/http"
)

// HTTPTransport serves the authenticated weather endpoints.
type HTTPTransport struct {
	weatherSvc *WeatherService
	sessions   http_.SessionValidator
	log        logging.Logger
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a new HTTPTransport.
// Every endpoint requires a session known to sessions.
func NewHTTPTransport(weatherSvc *WeatherService, sessions http_.SessionValidator) *HTTPTransport {
	return &HTTPTransport{
		weatherSvc: weatherSvc,
		sessions:   sessions,
		log:        logging.GetLogger("svc.weathersvc.http_transport"),
	}
}

// Routes mounts the weather endpoints behind the authorizing middleware:
// - POST /weather/current: Look up and log the current weather for a city
// - GET /history: List the caller's lookups, newest first.
func (ht *HTTPTransport) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(http_.AuthorizingMiddleware(ht.sessions, ht.log))
		r.Post("/weather/current", ht.HandleCurrent)
		r.Get("/history", ht.HandleHistory)
	})
}

// HandleCurrent processes weather lookups.
// Expects a JSON body: {"city": ...}.
func (ht *HTTPTransport) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	http_.RespondError(w, ht.handleCurrent(w, r))
}

func (ht *HTTPTransport) handleCurrent(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "weather lookup failed", "error", err)
		} else {
			log.DebugContext(ctx, "weather looked up")
		}
	}(r.Context())

	sess, ok := context_.SessionFromContext(r.Context())
	if !ok {
		return domain.ErrUnauthorized
	}

	var req domain.WeatherRequest
	if err := http_.DecodeJSON(r, &req); err != nil {
		return err //nolint:wrapcheck
	}

	if req.City == "" {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, domain.ErrNoCity)
	}

	log = log.With("city", req.City)

	summary := ht.weatherSvc.Lookup(r.Context(), sess.UserID, req.City)

	return http_.WriteJSON(w, http.StatusOK, domain.WeatherResponse{Summary: summary})
}

// HandleHistory lists the caller's lookups.
func (ht *HTTPTransport) HandleHistory(w http.ResponseWriter, r *http.Request) {
	http_.RespondError(w, ht.handleHistory(w, r))
}

func (ht *HTTPTransport) handleHistory(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "history listing failed", "error", err)
		} else {
			log.DebugContext(ctx, "history listed")
		}
	}(r.Context())

	sess, ok := context_.SessionFromContext(r.Context())
	if !ok {
		return domain.ErrUnauthorized
	}

	entries, err := ht.weatherSvc.History(r.Context(), sess.UserID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	resp := make([]domain.HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, e.Response())
	}

	return http_.WriteJSON(w, http.StatusOK, resp)
}
