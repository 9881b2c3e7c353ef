package domain

import "errors"

var (
	// ErrUserAlreadyExists is returned when trying to create a user with an existing username.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUserNotFound is returned when looking up a non-existent user.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when the username/password combination is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User represents a registered user in the system.
type User struct {
	ID             int64  // Unique identifier
	Username       string // Login username
	PasswordDigest string // Hashed password, never the plaintext
	CreatedAt      int64  // Unix timestamp of account creation
}

// Credentials is the request body of the register and login endpoints.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResponse reports whether a registration succeeded.
type RegisterResponse struct {
	Success bool `json:"success"`
}
