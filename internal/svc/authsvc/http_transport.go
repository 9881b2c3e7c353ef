package authsvc

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkrupp/weatherapp/internal/domain"
	"github.com/mkrupp/weatherapp/internal/infra/logging"
	http_ "github.com/mkrupp/weatherapp/internal/infra/transport/http"
	"github.com/mkrupp/weatherapp/internal/repo/session"
)

var (
	// ErrNoUsername is returned when the username is missing from the request.
	ErrNoUsername = errors.New("no username")
	// ErrNoPassword is returned when the password is missing from the request.
	ErrNoPassword = errors.New("no password")
)

// HTTPTransport handles HTTP requests for the authentication service.
// It provides endpoints for user registration and login.
type HTTPTransport struct {
	authSvc  *AuthService
	sessions session.Repository
	log      logging.Logger
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a new HTTPTransport.
// Successful logins open a session in sessions.
func NewHTTPTransport(authSvc *AuthService, sessions session.Repository) *HTTPTransport {
	return &HTTPTransport{
		authSvc:  authSvc,
		sessions: sessions,
		log:      logging.GetLogger("svc.authsvc.http_transport"),
	}
}

// Routes mounts the auth service endpoints:
// - POST /auth/register: Register a new user
// - POST /auth/login: Login and get a session token.
func (ht *HTTPTransport) Routes(r chi.Router) {
	r.Post("/auth/register", ht.HandleRegister)
	r.Post("/auth/login", ht.HandleLogin)
}

// HandleRegister processes user registration requests.
// Expects a JSON body: {"username": ..., "password": ...}.
func (ht *HTTPTransport) HandleRegister(w http.ResponseWriter, r *http.Request) {
	http_.RespondError(w, ht.handleRegister(w, r))
}

func (ht *HTTPTransport) handleRegister(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "user register failed", "error", err)
		} else {
			log.DebugContext(ctx, "user register handled")
		}
	}(r.Context())

	creds, err := decodeCredentials(r)
	if err != nil {
		return err
	}

	ok := ht.authSvc.Register(r.Context(), creds.Username, creds.Password)

	return http_.WriteJSON(w, http.StatusOK, domain.RegisterResponse{Success: ok})
}

// HandleLogin processes user login requests.
// Expects a JSON body: {"username": ..., "password": ...}
// Returns a session token on successful login.
func (ht *HTTPTransport) HandleLogin(w http.ResponseWriter, r *http.Request) {
	http_.RespondError(w, ht.handleLogin(w, r))
}

func (ht *HTTPTransport) handleLogin(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "user login failed", "error", err)
		} else {
			log.DebugContext(ctx, "user logged in")
		}
	}(r.Context())

	creds, err := decodeCredentials(r)
	if err != nil {
		return err
	}

	userID, err := ht.authSvc.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		return fmt.Errorf("login user: %w", err)
	}

	token, err := ht.sessions.Create(userID, creds.Username)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return http_.WriteJSON(w, http.StatusOK, domain.LoginResponse{
		Token:    token.String(),
		Username: creds.Username,
	})
}

func decodeCredentials(r *http.Request) (domain.Credentials, error) {
	var creds domain.Credentials

	if err := http_.DecodeJSON(r, &creds); err != nil {
		return creds, err //nolint:wrapcheck
	}

	if creds.Username == "" {
		return creds, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, ErrNoUsername)
	}

	if creds.Password == "" {
		return creds, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, ErrNoPassword)
	}

	return creds, nil
}
