package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/mkrupp/weatherapp/internal/domain"
	"github.com/mkrupp/weatherapp/internal/infra/logging"
)

// SQLiteHistoryRepository implements Repository using SQLite as the storage backend.
// Timestamps are stored as unix seconds.
type SQLiteHistoryRepository struct {
	db        *sql.DB
	log       logging.Logger
	writeLock *sync.Mutex
	now       func() time.Time
}

var _ Repository = (*SQLiteHistoryRepository)(nil)

// NewSQLiteHistoryRepository creates a new SQLiteHistoryRepository on a migrated database.
func NewSQLiteHistoryRepository(db *sql.DB) *SQLiteHistoryRepository {
	return &SQLiteHistoryRepository{
		db:        db,
		log:       logging.GetLogger("repo.history.sqlite_history_repository"),
		writeLock: new(sync.Mutex),
		now:       time.Now,
	}
}

// WithClock replaces the time source used to stamp new entries.
func (r *SQLiteHistoryRepository) WithClock(now func() time.Time) *SQLiteHistoryRepository {
	r.now = now

	return r
}

// WithWriteLock makes the repository serialize its writes on mu,
// shared with the other repositories of the same database.
func (r *SQLiteHistoryRepository) WithWriteLock(mu *sync.Mutex) *SQLiteHistoryRepository {
	r.writeLock = mu

	return r
}

// LogQuery implements Repository.LogQuery using SQLite.
func (r *SQLiteHistoryRepository) LogQuery(ctx context.Context, userID int64, city, summary string) error {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO query_logs (user_id, city, summary, queried_at) VALUES (?, ?, ?, ?)",
		userID,
		city,
		summary,
		r.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert query log: %w", err)
	}

	r.log.DebugContext(ctx, "query logged", "user_id", userID, "city", city)

	return nil
}

// GetHistory implements Repository.GetHistory using SQLite.
func (r *SQLiteHistoryRepository) GetHistory(ctx context.Context, userID int64) ([]domain.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT queried_at, city, summary FROM query_logs WHERE user_id = ? ORDER BY queried_at DESC, id DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := []domain.HistoryEntry{}

	for rows.Next() {
		var (
			entry     domain.HistoryEntry
			queriedAt int64
		)

		if err := rows.Scan(&queriedAt, &entry.City, &entry.Summary); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}

		entry.Timestamp = time.Unix(queriedAt, 0).UTC()
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return entries, nil
}
