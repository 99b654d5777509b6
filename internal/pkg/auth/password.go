package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/veritasedu/veritas/internal/pkg/logger"
)

// Password hashing cost
const BcryptCost = 12

// Hasher abstracts credential storage and comparison so the two schemes can
// sit behind the same authenticate/update-password contract.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(stored, candidate string) bool
}

// PlainHasher keeps passwords as-is and compares byte equality. This is the
// compatibility baseline for data imported from the legacy deployment, which
// stored plaintext passwords.
type PlainHasher struct{}

// Hash returns the password unchanged.
func (PlainHasher) Hash(password string) (string, error) {
	return password, nil
}

// Verify compares in constant time.
func (PlainHasher) Verify(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// BcryptHasher hashes with bcrypt.
type BcryptHasher struct{}

// Hash hashes the password with bcrypt.
func (BcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify checks the candidate against the bcrypt hash.
func (BcryptHasher) Verify(stored, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
}

// NewHasher returns the hasher for the configured scheme, defaulting to
// plain for unknown values.
func NewHasher(scheme string) Hasher {
	switch scheme {
	case "bcrypt":
		return BcryptHasher{}
	case "plain":
		return PlainHasher{}
	default:
		logger.Warn().Str("scheme", scheme).Msg("Unknown password scheme, using plain")
		return PlainHasher{}
	}
}
