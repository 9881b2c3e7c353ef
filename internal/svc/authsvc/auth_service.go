package authsvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkrupp/weatherapp/internal/domain"
	"github.com/mkrupp/weatherapp/internal/infra/logging"
	"github.com/mkrupp/weatherapp/internal/repo/user"
)

// AuthConfig contains configuration parameters for the authentication service.
type AuthConfig struct {
	// Hasher selects the password digest: "sha256" or "argon2id"
	Hasher string `env:"HASHER" default:"sha256"`

	// Pepper is the server-wide secret salt required by argon2id
	Pepper string `env:"PEPPER" default:"" secret:"true"`
}

// AuthService registers and authenticates users.
// It never creates sessions.
type AuthService struct {
	UserRepo user.Repository
	Hasher   Hasher
	Log      logging.Logger
}

// NewAuthService creates a new AuthService with the configured hasher.
// Returns an error if the hasher configuration is invalid.
func NewAuthService(userRepo user.Repository, cfg AuthConfig) (*AuthService, error) {
	hasher, err := NewHasher(cfg)
	if err != nil {
		return nil, fmt.Errorf("new hasher: %w", err)
	}

	return &AuthService{
		UserRepo: userRepo,
		Hasher:   hasher,
		Log:      logging.GetLogger("svc.authsvc.auth_service"),
	}, nil
}

// Register creates a new user account with the given username and password.
// The password is hashed before storage.
// Returns false if the username is taken or the store fails; the cause is only logged.
func (s *AuthService) Register(ctx context.Context, username, password string) bool {
	err := s.register(ctx, username, password)

	return err == nil
}

func (s *AuthService) register(ctx context.Context, username, password string) (err error) {
	log := s.Log.With(logging.Group("user", "username", username))

	defer func() {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			log.InfoContext(ctx, "register user rejected", "error", err)
		} else if err != nil {
			log.ErrorContext(ctx, "register user failed", "error", err)
		} else {
			log.DebugContext(ctx, "user registered")
		}
	}()

	if err := s.UserRepo.CreateUser(ctx, username, s.Hasher.Hash(password)); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// Login authenticates a user and returns their id.
// Every failure, including store errors, wraps domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (_ int64, err error) {
	log := s.Log.With(logging.Group("user", "username", username))

	defer func() {
		if err != nil {
			log.WarnContext(ctx, "login failed", "error", err)
		} else {
			log.DebugContext(ctx, "login successful")
		}
	}()

	userID, ok, err := s.UserRepo.AuthenticateUser(ctx, username, s.Hasher.Hash(password))
	if err != nil {
		return 0, errors.Join(domain.ErrInvalidCredentials, fmt.Errorf("authenticate user: %w", err))
	} else if !ok {
		return 0, domain.ErrInvalidCredentials
	}

	return userID, nil
}
