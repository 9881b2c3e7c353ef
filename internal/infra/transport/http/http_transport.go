package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/mkrupp/weatherapp/internal/domain"
	"github.com/mkrupp/weatherapp/internal/infra/logging"
)

// HTTPTransportConfig contains configuration parameters for HTTP servers.
type HTTPTransportConfig struct {
	// ServerAddr is the network address to listen on
	ServerAddr string `env:"SERVER_ADDR" default:":8080"`

	// ReadHeaderTimeout bounds reading the request headers
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" default:"5s"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`

	// MaxInFlight bounds concurrently handled requests, 0 means unlimited
	MaxInFlight int `env:"MAX_IN_FLIGHT" default:"0"`
}

// HTTPTransport is a group of endpoints mounted on the shared router.
type HTTPTransport interface {
	Routes(r chi.Router)
}

// NewHandler builds the request router serving the health endpoint and every transport.
// All responses pass through tracing, logging, CORS, panic recovery and the in-flight limit.
// Unmatched method/path combinations are answered with 404.
func NewHandler(cfg HTTPTransportConfig, transports ...HTTPTransport) http.Handler {
	log := logging.GetLogger("infra.transport.http")

	router := chi.NewRouter()
	router.Use(
		TracingMiddleware,
		func(next http.Handler) http.Handler { return LoggingMiddleware(next, log) },
		CORSMiddleware,
		func(next http.Handler) http.Handler { return RescueingMiddleware(next, log) },
		func(next http.Handler) http.Handler { return ConcurrencyLimitMiddleware(next, cfg.MaxInFlight) },
	)

	router.NotFound(HandleNotFound)
	router.MethodNotAllowed(HandleNotFound)
	router.Get("/health", HandleHealth)

	for _, t := range transports {
		t.Routes(router)
	}

	return router
}

// HandleHealth reports liveness.
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = WriteJSON(w, http.StatusOK, domain.HealthResponse{Status: "ok"})
}

// HandleNotFound answers every unrouted request.
func HandleNotFound(w http.ResponseWriter, _ *http.Request) {
	RespondError(w, domain.ErrNotFound)
}

// ListenAndServe binds cfg.ServerAddr and serves handler until ctx is done.
func ListenAndServe(ctx context.Context, handler http.Handler, cfg HTTPTransportConfig) error {
	sock, err := net.Listen("tcp", cfg.ServerAddr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	return Serve(ctx, sock, handler, cfg)
}

// Serve accepts connections on sock until ctx is done, then shuts down gracefully,
// waiting up to cfg.ShutdownTimeout for in-flight requests.
// Returns an error if the server fails while running or cannot shut down cleanly.
func Serve(ctx context.Context, sock net.Listener, handler http.Handler, cfg HTTPTransportConfig) error {
	log := logging.GetLogger("infra.transport.http")

	//nolint:exhaustruct
	server := &http.Server{
		Handler:           handler,
		ErrorLog:          logging.GetLogLogger(log, logging.LevelError),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	log.InfoContext(ctx, "listening", "addr", sock.Addr().String())

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := server.Serve(sock); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		log.InfoContext(ctx, "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}

		return nil
	})

	if err := group.Wait(); err != nil {
		return err //nolint:wrapcheck
	}

	return nil
}
