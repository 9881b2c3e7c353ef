package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mkrupp/weatherapp/internal/domain"
	"github.com/mkrupp/weatherapp/internal/infra/logging"
)

const pgUniqueViolation = "23505"

// PostgresUserRepository implements Repository on PostgreSQL through the pgx stdlib driver.
type PostgresUserRepository struct {
	db  *sql.DB
	log logging.Logger
}

var _ Repository = (*PostgresUserRepository)(nil)

// NewPostgresUserRepository creates a new PostgresUserRepository on a migrated database.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{
		db:  db,
		log: logging.GetLogger("repo.user.postgres_user_repository"),
	}
}

// CreateUser implements Repository.CreateUser using PostgreSQL.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, username, passwordDigest string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, password_digest) VALUES ($1, $2)",
		username,
		passwordDigest,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			err = errors.Join(domain.ErrUserAlreadyExists, err)
		}

		return fmt.Errorf("insert user: %w", err)
	}

	r.log.DebugContext(ctx, "user inserted", logging.Group("user", "username", username))

	return nil
}

// GetUserByUsername implements Repository.GetUserByUsername using PostgreSQL.
func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, bool, error) {
	var user domain.User

	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, password_digest, EXTRACT(EPOCH FROM created_at)::BIGINT FROM users WHERE username = $1",
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

// AuthenticateUser implements Repository.AuthenticateUser using PostgreSQL.
func (r *PostgresUserRepository) AuthenticateUser(
	ctx context.Context,
	username string,
	passwordDigest string,
) (int64, bool, error) {
	return authenticate(ctx, r, username, passwordDigest)
}
