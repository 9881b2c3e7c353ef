package history_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/weatherapp/internal/infra/database"
	"github.com/mkrupp/weatherapp/internal/repo/history"
	"github.com/mkrupp/weatherapp/internal/repo/user"
)

func openSQLite(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(context.Background(), database.Config{
		Driver:          "sqlite",
		Path:            filepath.Join(t.TempDir(), "history.db"),
		MaxOpenConns:    4,
		ConnMaxLifetime: time.Minute,
		BusyTimeout:     time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func createUser(t *testing.T, db *database.DB, username string) int64 {
	t.Helper()

	ctx := context.Background()
	users := user.NewSQLiteUserRepository(db.DB)

	require.NoError(t, users.CreateUser(ctx, username, "digest"))

	found, ok, err := users.GetUserByUsername(ctx, username)
	require.NoError(t, err)
	require.True(t, ok)

	return found.ID
}

type steppedClock struct {
	times []time.Time
}

func (c *steppedClock) now() time.Time {
	t := c.times[0]
	c.times = c.times[1:]

	return t
}

func TestSQLiteHistoryRepository_NewestFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openSQLite(t)
	alice := createUser(t, db, "alice")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := &steppedClock{times: []time.Time{
		base.Add(time.Minute),
		base,
		base.Add(2 * time.Minute),
		base.Add(2 * time.Minute),
	}}

	repo := history.NewSQLiteHistoryRepository(db.DB).WithClock(clock.now)

	require.NoError(t, repo.LogQuery(ctx, alice, "Berlin", "s1"))
	require.NoError(t, repo.LogQuery(ctx, alice, "Paris", "s2"))
	require.NoError(t, repo.LogQuery(ctx, alice, "Rome", "s3"))
	require.NoError(t, repo.LogQuery(ctx, alice, "Oslo", "s4"))

	entries, err := repo.GetHistory(ctx, alice)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	cities := make([]string, 0, len(entries))
	for _, e := range entries {
		cities = append(cities, e.City)
	}

	// equal timestamps fall back to insertion order, newest first
	assert.Equal(t, []string{"Oslo", "Rome", "Berlin", "Paris"}, cities)
	assert.Equal(t, base.Add(2*time.Minute), entries[0].Timestamp)
	assert.Equal(t, time.UTC, entries[0].Timestamp.Location())
	assert.Equal(t, "s4", entries[0].Summary)
}

func TestSQLiteHistoryRepository_PerUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openSQLite(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	repo, err := history.NewRepository(db)
	require.NoError(t, err)

	require.NoError(t, repo.LogQuery(ctx, alice, "Berlin", "Weather in Berlin"))

	entries, err := repo.GetHistory(ctx, bob)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	entries, err = repo.GetHistory(ctx, alice)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Berlin", entries[0].City)
	assert.Equal(t, "Weather in Berlin", entries[0].Summary)
	assert.WithinDuration(t, time.Now(), entries[0].Timestamp, time.Minute)
}

func TestSQLiteHistoryRepository_ClosedDatabase(t *testing.T) {
	t.Parallel()

	db := openSQLite(t)
	repo := history.NewSQLiteHistoryRepository(db.DB)

	require.NoError(t, db.Close())

	_, err := repo.GetHistory(context.Background(), 1)
	require.Error(t, err)

	err = repo.LogQuery(context.Background(), 1, "Berlin", "summary")
	require.Error(t, err)
}

func TestSQLiteRepositories_ShareWriteLock(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// a 1ms busy timeout fails any write that has to wait on another connection
	db, err := database.Open(ctx, database.Config{
		Driver:          "sqlite",
		Path:            filepath.Join(t.TempDir(), "shared.db"),
		MaxOpenConns:    8,
		ConnMaxLifetime: time.Minute,
		BusyTimeout:     time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	alice := createUser(t, db, "alice")

	users, err := user.NewRepository(db)
	require.NoError(t, err)

	queries, err := history.NewRepository(db)
	require.NoError(t, err)

	const writers = 32

	var (
		wg   sync.WaitGroup
		errs = make(chan error, 2*writers)
	)

	for i := range writers {
		wg.Add(2)

		go func() {
			defer wg.Done()

			errs <- users.CreateUser(ctx, fmt.Sprintf("user-%d", i), "digest")
		}()

		go func() {
			defer wg.Done()

			errs <- queries.LogQuery(ctx, alice, fmt.Sprintf("city-%d", i), "summary")
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	entries, err := queries.GetHistory(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, entries, writers)
}
