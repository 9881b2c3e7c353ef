package domain

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
)

var (
	// ErrNoAuthToken is returned when an authentication token is required but not provided.
	ErrNoAuthToken = errors.New("no auth token")
	// ErrInvalidAuthToken is returned when a token does not belong to a live session.
	ErrInvalidAuthToken = errors.New("invalid auth token")
	// ErrUnauthorized is returned when a request lacks a valid session.
	ErrUnauthorized = errors.New("unauthorized")
)

// SessionTokenSize is the number of random bytes in a session token.
const SessionTokenSize = 16

// SessionToken is an opaque, unguessable session identifier. It carries no user data.
type SessionToken string

// NewSessionToken returns a hex encoded token drawn from crypto/rand.
// The result is always 2*SessionTokenSize characters long.
func NewSessionToken() (SessionToken, error) {
	var buf [SessionTokenSize]byte

	if _, err := rand.Read(buf[:]); err != nil {
		return "", err //nolint:wrapcheck
	}

	return SessionToken(hex.EncodeToString(buf[:])), nil
}

// String implements fmt.Stringer.
func (t SessionToken) String() string {
	return string(t)
}

// Session binds a token to the user that logged in with it.
type Session struct {
	Token    SessionToken
	UserID   int64
	Username string
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}
