package user

import (
	"context"
	"crypto/hmac"
	"errors"
	"fmt"

	"github.com/mkrupp/weatherapp/internal/domain"
	"github.com/mkrupp/weatherapp/internal/infra/database"
)

// Repository defines the interface for user data persistence.
type Repository interface {
	// CreateUser adds a new user with an already hashed password.
	// Returns ErrUserAlreadyExists if the username is already taken.
	CreateUser(ctx context.Context, username, passwordDigest string) error

	// GetUserByUsername retrieves a user by their username.
	// Returns the user object and true if found, or nil and false if not found.
	// Returns an error if the operation fails.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, bool, error)

	// AuthenticateUser matches username and digest.
	// Returns the user id and true on a match, zero and false otherwise.
	AuthenticateUser(ctx context.Context, username, passwordDigest string) (int64, bool, error)
}

// NewRepository returns the implementation matching the database dialect.
func NewRepository(db *database.DB) (Repository, error) {
	switch db.Dialect {
	case database.DialectSQLite:
		return NewSQLiteUserRepository(db.DB).WithWriteLock(db.WriteLock()), nil
	case database.DialectPostgres:
		return NewPostgresUserRepository(db.DB), nil
	default:
		return nil, fmt.Errorf("%w: %q", database.ErrUnknownDriver, db.Dialect)
	}
}

func authenticate(
	ctx context.Context,
	repo Repository,
	username string,
	passwordDigest string,
) (int64, bool, error) {
	user, ok, err := repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return 0, false, nil
		}

		return 0, false, fmt.Errorf("get user: %w", err)
	} else if !ok {
		return 0, false, nil
	}

	if !hmac.Equal([]byte(passwordDigest), []byte(user.PasswordDigest)) {
		return 0, false, nil
	}

	return user.ID, true, nil
}
