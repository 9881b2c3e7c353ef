package session

import (
	"github.com/mkrupp/weatherapp/internal/domain"
)

// Repository stores live sessions keyed by their token.
type Repository interface {
	// Create starts a session for the user and returns its fresh token.
	Create(userID int64, username string) (domain.SessionToken, error)

	// Validate resolves a token to its session.
	// The empty token is never valid.
	Validate(token domain.SessionToken) (domain.Session, bool)

	// Len returns the number of live sessions.
	Len() int
}
