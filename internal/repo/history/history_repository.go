package history

import (
	"context"
	"fmt"

	"github.com/mkrupp/weatherapp/internal/domain"
	"github.com/mkrupp/weatherapp/internal/infra/database"
)

// Repository persists weather lookups per user.
type Repository interface {
	// LogQuery appends a lookup stamped with the current time.
	LogQuery(ctx context.Context, userID int64, city, summary string) error

	// GetHistory returns the lookups of a user, newest first.
	// A user without lookups yields an empty, non-nil slice.
	GetHistory(ctx context.Context, userID int64) ([]domain.HistoryEntry, error)
}

// NewRepository returns the implementation matching the database dialect.
func NewRepository(db *database.DB) (Repository, error) {
	switch db.Dialect {
	case database.DialectSQLite:
		return NewSQLiteHistoryRepository(db.DB).WithWriteLock(db.WriteLock()), nil
	case database.DialectPostgres:
		return NewPostgresHistoryRepository(db.DB), nil
	default:
		return nil, fmt.Errorf("%w: %q", database.ErrUnknownDriver, db.Dialect)
	}
}
