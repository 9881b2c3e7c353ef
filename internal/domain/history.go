package domain

import (
	"errors"
	"time"
)

// ErrNoCity is returned when a weather lookup is requested without a city.
var ErrNoCity = errors.New("no city")

// HistoryTimeFormat is the wire format of history timestamps.
const HistoryTimeFormat = time.RFC3339

// HistoryEntry is a single logged weather lookup.
type HistoryEntry struct {
	Timestamp time.Time
	City      string
	Summary   string
}

// HistoryEntryResponse is the JSON representation of a HistoryEntry.
type HistoryEntryResponse struct {
	Timestamp string `json:"timestamp"`
	City      string `json:"city"`
	Summary   string `json:"summary"`
}

// Response converts the entry into its wire representation.
func (e HistoryEntry) Response() HistoryEntryResponse {
	return HistoryEntryResponse{
		Timestamp: e.Timestamp.UTC().Format(HistoryTimeFormat),
		City:      e.City,
		Summary:   e.Summary,
	}
}

// WeatherRequest is the request body of the current weather endpoint.
type WeatherRequest struct {
	City string `json:"city"`
}

// WeatherResponse carries the provider's human-readable summary.
type WeatherResponse struct {
	Summary string `json:"summary"`
}
