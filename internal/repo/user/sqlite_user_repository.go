package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mkrupp/weatherapp/internal/domain"
	"github.com/mkrupp/weatherapp/internal/infra/logging"
)

// SQLiteUserRepository implements Repository using SQLite as the storage backend.
type SQLiteUserRepository struct {
	db        *sql.DB
	log       logging.Logger
	writeLock *sync.Mutex // go-sqlite does not support concurrent writes
}

var _ Repository = (*SQLiteUserRepository)(nil)

// NewSQLiteUserRepository creates a new SQLiteUserRepository on a migrated database.
func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{
		db:        db,
		log:       logging.GetLogger("repo.user.sqlite_user_repository"),
		writeLock: new(sync.Mutex),
	}
}

// WithWriteLock makes the repository serialize its writes on mu,
// shared with the other repositories of the same database.
func (r *SQLiteUserRepository) WithWriteLock(mu *sync.Mutex) *SQLiteUserRepository {
	r.writeLock = mu

	return r
}

// CreateUser implements Repository.CreateUser using SQLite.
func (r *SQLiteUserRepository) CreateUser(ctx context.Context, username, passwordDigest string) (err error) {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO users (username, password_digest, created_at) VALUES (?, ?, ?)",
		username,
		passwordDigest,
		time.Now().Unix(),
	)
	if err != nil {
		var liteErr *sqlite.Error
		if errors.As(err, &liteErr) {
			switch liteErr.Code() {
			case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
				fallthrough
			case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
				err = errors.Join(domain.ErrUserAlreadyExists, err)
			default:
				break
			}
		}

		return fmt.Errorf("insert user: %w", err)
	}

	r.log.DebugContext(ctx, "user inserted", logging.Group("user", "username", username))

	return nil
}

// GetUserByUsername implements Repository.GetUserByUsername using SQLite.
func (r *SQLiteUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, bool, error) {
	var user domain.User

	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, password_digest, created_at FROM users WHERE username = ?",
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordDigest, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = errors.Join(domain.ErrUserNotFound, err)
		}

		return nil, false, fmt.Errorf("query user: %w", err)
	}

	return &user, true, nil
}

// AuthenticateUser implements Repository.AuthenticateUser using SQLite.
func (r *SQLiteUserRepository) AuthenticateUser(
	ctx context.Context,
	username string,
	passwordDigest string,
) (int64, bool, error) {
	return authenticate(ctx, r, username, passwordDigest)
}
