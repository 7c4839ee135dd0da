package service

import (
	"errors"
	"fmt"

	"github.com/msomdec/dev-connect/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// PasswordHasher derives and checks salted bcrypt digests.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher using the given bcrypt cost.
func NewPasswordHasher(cost int) *PasswordHasher {
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt encoding of plaintext, salt included.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password exceeds %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A malformed digest is
// treated as a mismatch.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
