package session

import (
	"fmt"
	"sync"

	"github.com/mkrupp/weatherapp/internal/domain"
)

// TokenGenerator produces candidate session tokens.
type TokenGenerator func() (domain.SessionToken, error)

// MemoryRepository keeps sessions in process memory until exit.
// It is safe for concurrent use.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[domain.SessionToken]domain.Session
	newToken TokenGenerator
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty store drawing tokens from crypto/rand.
func NewMemoryRepository() *MemoryRepository {
	return NewMemoryRepositoryWithGenerator(domain.NewSessionToken)
}

// NewMemoryRepositoryWithGenerator creates an empty store using gen for tokens.
func NewMemoryRepositoryWithGenerator(gen TokenGenerator) *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[domain.SessionToken]domain.Session),
		newToken: gen,
	}
}

// Create implements Repository.Create.
func (r *MemoryRepository) Create(userID int64, username string) (domain.SessionToken, error) {
	for {
		token, err := r.newToken()
		if err != nil {
			return "", fmt.Errorf("generate token: %w", err)
		} else if token == "" {
			continue
		}

		if r.insert(token, domain.Session{Token: token, UserID: userID, Username: username}) {
			return token, nil
		}
	}
}

func (r *MemoryRepository) insert(token domain.SessionToken, sess domain.Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.sessions[token]; taken {
		return false
	}

	r.sessions[token] = sess

	return true
}

// Validate implements Repository.Validate.
func (r *MemoryRepository) Validate(token domain.SessionToken) (domain.Session, bool) {
	if token == "" {
		return domain.Session{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[token]

	return sess, ok
}

// Len implements Repository.Len.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
