package weathersvc

import (
	"context"
	"fmt"

	"github.com/mkrupp/weatherapp/internal/domain"
	"github.com/mkrupp/weatherapp/internal/infra/logging"
	"github.com/mkrupp/weatherapp/internal/repo/history"
)

// WeatherService looks up weather on behalf of users and keeps their query history.
type WeatherService struct {
	Provider    Provider
	HistoryRepo history.Repository
	Log         logging.Logger
}

func NewWeatherService(provider Provider, historyRepo history.Repository) *WeatherService {
	return &WeatherService{
		Provider:    provider,
		HistoryRepo: historyRepo,
		Log:         logging.GetLogger("svc.weathersvc.weather_service"),
	}
}

// Lookup returns the provider's summary for city and logs it to the user's history.
// Logging is best effort: a failed write is logged and the summary is still returned.
func (s *WeatherService) Lookup(ctx context.Context, userID int64, city string) string {
	summary := s.Provider.GetWeather(ctx, city)

	if err := s.HistoryRepo.LogQuery(ctx, userID, city, summary); err != nil {
		s.Log.WarnContext(ctx, "log query failed", "user_id", userID, "city", city, "error", err)
	}

	return summary
}

// History returns the user's lookups, newest first.
func (s *WeatherService) History(ctx context.Context, userID int64) ([]domain.HistoryEntry, error) {
	entries, err := s.HistoryRepo.GetHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}

	return entries, nil
}
