package weathersvc_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/weatherapp/internal/domain"
	"github.com/mkrupp/weatherapp/internal/infra/logging"
	"github.com/mkrupp/weatherapp/internal/svc/weathersvc"
)

// fakeProvider answers every lookup with a fixed summary format.
type fakeProvider struct{}

func (fakeProvider) GetWeather(_ context.Context, city string) string {
	return "Weather in " + city + " | Temp 20 C | Wind 5 kph"
}

type loggedQuery struct {
	userID  int64
	city    string
	summary string
}

// mockHistoryRepository implements history.Repository for testing.
type mockHistoryRepository struct {
	logged []loggedQuery
	err    error
	m      sync.Mutex
}

func (m *mockHistoryRepository) LogQuery(_ context.Context, userID int64, city, summary string) error {
	m.m.Lock()
	defer m.m.Unlock()

	if m.err != nil {
		return m.err
	}

	m.logged = append(m.logged, loggedQuery{userID: userID, city: city, summary: summary})

	return nil
}

func (m *mockHistoryRepository) GetHistory(_ context.Context, userID int64) ([]domain.HistoryEntry, error) {
	m.m.Lock()
	defer m.m.Unlock()

	if m.err != nil {
		return nil, m.err
	}

	entries := []domain.HistoryEntry{}
	for i := len(m.logged) - 1; i >= 0; i-- {
		if q := m.logged[i]; q.userID == userID {
			entries = append(entries, domain.HistoryEntry{City: q.city, Summary: q.summary})
		}
	}

	return entries, nil
}

var ErrRepoError = errors.New("repository error")

func TestWeatherService_Lookup(t *testing.T) {
	t.Parallel()

	repo := &mockHistoryRepository{}
	svc := weathersvc.NewWeatherService(fakeProvider{}, repo)
	svc.Log = logging.NewNopLogger()

	summary := svc.Lookup(context.Background(), 7, "Berlin")
	assert.Equal(t, "Weather in Berlin | Temp 20 C | Wind 5 kph", summary)

	require.Len(t, repo.logged, 1)
	assert.Equal(t, loggedQuery{userID: 7, city: "Berlin", summary: summary}, repo.logged[0])
}

func TestWeatherService_LookupLogFailure(t *testing.T) {
	t.Parallel()

	repo := &mockHistoryRepository{err: ErrRepoError}
	svc := weathersvc.NewWeatherService(fakeProvider{}, repo)
	svc.Log = logging.NewNopLogger()

	summary := svc.Lookup(context.Background(), 7, "Berlin")
	assert.Equal(t, "Weather in Berlin | Temp 20 C | Wind 5 kph", summary)
	assert.Empty(t, repo.logged)
}

func TestWeatherService_History(t *testing.T) {
	t.Parallel()

	repo := &mockHistoryRepository{}
	svc := weathersvc.NewWeatherService(fakeProvider{}, repo)
	svc.Log = logging.NewNopLogger()

	svc.Lookup(context.Background(), 1, "Berlin")
	svc.Lookup(context.Background(), 2, "Oslo")
	svc.Lookup(context.Background(), 1, "Rome")

	entries, err := svc.History(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Rome", entries[0].City)
	assert.Equal(t, "Berlin", entries[1].City)

	repo.err = ErrRepoError

	_, err = svc.History(context.Background(), 1)
	require.ErrorIs(t, err, ErrRepoError)
}
