package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mkrupp/weatherapp/internal/cli"
	"github.com/mkrupp/weatherapp/internal/infra/config"
	"github.com/mkrupp/weatherapp/internal/infra/database"
	"github.com/mkrupp/weatherapp/internal/infra/logging"
	"github.com/mkrupp/weatherapp/internal/repo/history"
	"github.com/mkrupp/weatherapp/internal/repo/user"
	"github.com/mkrupp/weatherapp/internal/svc/authsvc"
	"github.com/mkrupp/weatherapp/internal/svc/weathersvc"
)

const (
	appName = "weatherapp"
	svcName = "cli"
)

type Config struct {
	config.EnvConfig

	Log     logging.LoggerConfig        `envPrefix:"LOG_"`
	Auth    authsvc.AuthConfig          `envPrefix:"AUTH_"`
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

	logging.Configure(ctx, cfg.Log, loggerName)

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "Fatal error:", err)
		os.Exit(1) //nolint:gocritic
	}
}

func run(ctx context.Context, cfg Config) error {
	logging.GetLogger("cmd.weathercli").DebugContext(ctx, "starting", config.Describe("config", &cfg))

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

	weatherSvc := weathersvc.NewWeatherService(weathersvc.NewWeatherAPIProvider(cfg.Weather, nil), historyRepo)

	if err := cli.New(authSvc, weatherSvc, os.Stdin, os.Stdout).Run(ctx); err != nil {
		return fmt.Errorf("run cli: %w", err)
	}

	return nil
}
