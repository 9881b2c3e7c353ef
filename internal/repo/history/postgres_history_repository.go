package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkrupp/weatherapp/internal/domain"
	"github.com/mkrupp/weatherapp/internal/infra/logging"
)

// PostgresHistoryRepository implements Repository on PostgreSQL.
// Entries are stamped by the database.
type PostgresHistoryRepository struct {
	db  *sql.DB
	log logging.Logger
}

var _ Repository = (*PostgresHistoryRepository)(nil)

func NewPostgresHistoryRepository(db *sql.DB) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{
		db:  db,
		log: logging.GetLogger("repo.history.postgres_history_repository"),
	}
}

// LogQuery implements Repository.LogQuery using PostgreSQL.
func (r *PostgresHistoryRepository) LogQuery(ctx context.Context, userID int64, city, summary string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO query_logs (user_id, city, summary) VALUES ($1, $2, $3)",
		userID,
		city,
		summary,
	)
	if err != nil {
		return fmt.Errorf("insert query log: %w", err)
	}

	r.log.DebugContext(ctx, "query logged", "user_id", userID, "city", city)

	return nil
}

// GetHistory implements Repository.GetHistory using PostgreSQL.
func (r *PostgresHistoryRepository) GetHistory(ctx context.Context, userID int64) ([]domain.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT queried_at, city, summary FROM query_logs WHERE user_id = $1 ORDER BY queried_at DESC, id DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := []domain.HistoryEntry{}

	for rows.Next() {
		var entry domain.HistoryEntry

		if err := rows.Scan(&entry.Timestamp, &entry.City, &entry.Summary); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}

		entry.Timestamp = entry.Timestamp.UTC()
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return entries, nil
}
