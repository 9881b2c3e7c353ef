package authsvc

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

var (
	// ErrUnknownHasher is returned when the configured hasher is not supported.
	ErrUnknownHasher = errors.New("unknown hasher")
	// ErrNoPepper is returned when argon2id is selected without a pepper.
	ErrNoPepper = errors.New("no pepper")
)

const (
	HasherSHA256   = "sha256"
	HasherArgon2id = "argon2id"
)

// Hasher turns a password into a deterministic digest.
// Equal passwords always yield equal digests.
type Hasher interface {
	Hash(password string) string
}

// NewHasher returns the hasher selected by cfg.Hasher.
func NewHasher(cfg AuthConfig) (Hasher, error) {
	switch cfg.Hasher {
	case HasherSHA256:
		return SHA256Hasher{}, nil
	case HasherArgon2id:
		return NewArgon2idHasher(cfg.Pepper)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHasher, cfg.Hasher)
	}
}

// SHA256Hasher hex encodes the unsalted SHA-256 of the password.
// It matches digests stored by earlier deployments but is too fast for production credentials.
type SHA256Hasher struct{}

var _ Hasher = SHA256Hasher{}

func (SHA256Hasher) Hash(password string) string {
	sum := sha256.Sum256([]byte(password))

	return hex.EncodeToString(sum[:])
}

// Argon2id parameters, RFC 9106 second recommended option.
const (
	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
)

// Argon2idHasher derives digests with Argon2id using a server-wide pepper as salt.
type Argon2idHasher struct {
	pepper []byte
}

var _ Hasher = (*Argon2idHasher)(nil)

func NewArgon2idHasher(pepper string) (*Argon2idHasher, error) {
	if pepper == "" {
		return nil, ErrNoPepper
	}

	return &Argon2idHasher{pepper: []byte(pepper)}, nil
}

func (h *Argon2idHasher) Hash(password string) string {
	key := argon2.IDKey([]byte(password), h.pepper, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	return hex.EncodeToString(key)
}
