package weathersvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	context_ "github.com/mkrupp/weatherapp/internal/infra/context"
	"github.com/mkrupp/weatherapp/internal/infra/logging"
	http_ "github.com/mkrupp/weatherapp/internal/infra/transport/http"
)

const (
	userAgent    = "WeatherApp"
	notAvailable = "N/A"

	// maxResponseSize caps how much of an upstream body is read.
	maxResponseSize = 1 << 20
)

// Provider fetches a human-readable weather summary for a city.
// It never fails hard: problems are reported inside the summary text.
type Provider interface {
	GetWeather(ctx context.Context, city string) string
}

// WeatherAPIConfig holds configuration for the weatherapi.com client.
type WeatherAPIConfig struct {
	// Key is the weatherapi.com API key
	Key string `env:"KEY" default:"" secret:"true"`

	// URL is the current conditions endpoint
	URL string `env:"URL" default:"https://api.weatherapi.com/v1/current.json"`

	Timeout time.Duration `env:"TIMEOUT" default:"10s"`
}

// WeatherAPIProvider implements Provider on the weatherapi.com current conditions API.
type WeatherAPIProvider struct {
	httpClient *http.Client
	log        logging.Logger
	cfg        WeatherAPIConfig
}

var _ Provider = (*WeatherAPIProvider)(nil)

// NewWeatherAPIProvider creates a new WeatherAPIProvider with the given configuration.
// If httpClient is nil, a client with cfg.Timeout is used.
func NewWeatherAPIProvider(cfg WeatherAPIConfig, httpClient *http.Client) *WeatherAPIProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout} //nolint:exhaustruct
	}

	return &WeatherAPIProvider{
		httpClient: httpClient,
		log:        logging.GetLogger("svc.weathersvc.weather_provider"),
		cfg:        cfg,
	}
}

type currentResponse struct {
	Current *struct {
		TempC   *float64 `json:"temp_c"`
		WindKph *float64 `json:"wind_kph"`
	} `json:"current"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GetWeather implements Provider.GetWeather.
// The summary reads "Weather in <city> | Temp <temp_c> C | Wind <wind_kph> kph".
func (p *WeatherAPIProvider) GetWeather(ctx context.Context, city string) string {
	if p.cfg.Key == "" {
		return "WEATHERAPI_KEY not set"
	}

	summary, err := p.getWeather(ctx, city)
	if err != nil {
		p.log.WarnContext(ctx, "weather lookup failed", "city", city, "error", err)

		return "Error: " + err.Error()
	}

	return summary
}

func (p *WeatherAPIProvider) getWeather(ctx context.Context, city string) (string, error) {
	endpoint, err := url.Parse(p.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	query := endpoint.Query()
	query.Set("key", p.cfg.Key)
	query.Set("q", city)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	if traceID, ok := context_.TraceIDFromContext(ctx); ok {
		req.Header.Set(http_.TraceIDHeader, traceID)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		// *url.Error repeats the request URL, which carries the API key
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}

		return "", fmt.Errorf("get: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	var payload currentResponse

	decodeErr := json.Unmarshal(body, &payload)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && payload.Error != nil && payload.Error.Message != "" {
			return "", errors.New(payload.Error.Message) //nolint:err113
		}

		return "", fmt.Errorf("unexpected status %s", resp.Status) //nolint:err113
	}

	if decodeErr != nil {
		return "", fmt.Errorf("decode body: %w", decodeErr)
	}

	temp, wind := notAvailable, notAvailable
	if payload.Current != nil {
		temp = formatReading(payload.Current.TempC)
		wind = formatReading(payload.Current.WindKph)
	}

	return fmt.Sprintf("Weather in %s | Temp %s C | Wind %s kph", city, temp, wind), nil
}

func formatReading(v *float64) string {
	if v == nil {
		return notAvailable
	}

	return strconv.FormatFloat(*v, 'f', -1, 64)
}
