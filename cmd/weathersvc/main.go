package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/mkrupp/weatherapp/internal/infra/config"
	"github.com/mkrupp/weatherapp/internal/infra/database"
	"github.com/mkrupp/weatherapp/internal/infra/logging"
	"github.com/mkrupp/weatherapp/internal/infra/transport/http"
	"github.com/mkrupp/weatherapp/internal/repo/history"
	"github.com/mkrupp/weatherapp/internal/repo/session"
	"github.com/mkrupp/weatherapp/internal/repo/user"
	"github.com/mkrupp/weatherapp/internal/svc/authsvc"
	"github.com/mkrupp/weatherapp/internal/svc/weathersvc"
)

const (
	appName = "weatherapp"
	svcName = "server"
)

var errUsage = errors.New("usage: weathersvc [<address> <port>]")

type Config struct {
	config.EnvConfig

	Log     logging.LoggerConfig        `envPrefix:"LOG_"`
	Auth    authsvc.AuthConfig          `envPrefix:"AUTH_"`
	HTTP    http.HTTPTransportConfig    `envPrefix:"HTTP_"`
	Store   database.Config             `envPrefix:"STORE_"`
	Weather weathersvc.WeatherAPIConfig `envPrefix:"WEATHERAPI_"`
}

func main() {
	var (
		cfg Config

		configPrefix = strings.ToUpper(strings.Join([]string{appName, svcName}, "_"))
		loggerName   = strings.ToLower(strings.Join([]string{appName, svcName}, "."))
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.Parse(ctx, &cfg, configPrefix); err != nil {
		panic(err)
	}

	addr, err := serverAddr(os.Args[1:], cfg.HTTP.ServerAddr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2) //nolint:gocritic
	}

	cfg.HTTP.ServerAddr = addr

	logging.Configure(ctx, cfg.Log, loggerName)

	if err := run(ctx, cfg); err != nil {
		panic(err)
	}
}

// serverAddr applies the optional "<address> <port>" arguments over the configured address.
func serverAddr(args []string, fallback string) (string, error) {
	switch len(args) {
	case 0:
		return fallback, nil
	case 2:
		if _, err := strconv.ParseUint(args[1], 10, 16); err != nil {
			return "", fmt.Errorf("%w: invalid port %q", errUsage, args[1])
		}

		return net.JoinHostPort(args[0], args[1]), nil
	default:
		return "", errUsage
	}
}

func run(ctx context.Context, cfg Config) (err error) {
	defer func() {
		log := logging.GetLogger("cmd.weathersvc")

		if err != nil {
			log.ErrorContext(ctx, "error", "err", err)
			panic(err)
		}

		log.InfoContext(ctx, "shutdown")
	}()

	logging.GetLogger("cmd.weathersvc").InfoContext(ctx, "starting", config.Describe("config", &cfg))

	db, err := database.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	userRepo, err := user.NewRepository(db)
	if err != nil {
		return fmt.Errorf("new user repo: %w", err)
	}

	historyRepo, err := history.NewRepository(db)
	if err != nil {
		return fmt.Errorf("new history repo: %w", err)
	}

	authSvc, err := authsvc.NewAuthService(userRepo, cfg.Auth)
	if err != nil {
		return fmt.Errorf("new auth service: %w", err)
	}

	sessions := session.NewMemoryRepository()
	weatherSvc := weathersvc.NewWeatherService(weathersvc.NewWeatherAPIProvider(cfg.Weather, nil), historyRepo)

	handler := http.NewHandler(cfg.HTTP,
		authsvc.NewHTTPTransport(authSvc, sessions),
		weathersvc.NewHTTPTransport(weatherSvc, sessions),
	)

	if err := http.ListenAndServe(ctx, handler, cfg.HTTP); err != nil {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}
