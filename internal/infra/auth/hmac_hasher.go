// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"fmt"

	"github.com/pkg/errors"

	"identity/internal/domain/service"
)

const (
	// SaltLength is the HMAC-SHA512 native key size (the hash block size).
	SaltLength = sha512.BlockSize
	// HashLength is the HMAC-SHA512 output size.
	HashLength = sha512.Size
)

// hmacHasher is a concrete implementation of the PasswordHasher interface
// using HMAC-SHA512 with the per-account salt as the MAC key.
type hmacHasher struct{}

// NewHMACHasher is the constructor for hmacHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewHMACHasher() service.PasswordHasher {
	return &hmacHasher{}
}

// Hash generates a fresh random salt and computes the keyed hash of the
// password. The salt is never derived from the password and never reused.
func (h *hmacHasher) Hash(password string) ([]byte, []byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, errors.Wrap(err, "failed to generate password salt")
	}

	return computeHash(password, salt), salt, nil
}

// Verify recomputes the keyed hash of the candidate password and compares it
// against the stored hash over the full hash length in constant time.
func (h *hmacHasher) Verify(password string, hash []byte, salt []byte) bool {
	mustHaveValidLengths(hash, salt)

	return hmac.Equal(computeHash(password, salt), hash)
}

func computeHash(password string, salt []byte) []byte {
	mac := hmac.New(sha512.New, salt)
	mac.Write([]byte(password))

	return mac.Sum(nil)
}

// mustHaveValidLengths enforces the fixed-length invariant on stored
// credential material. A mismatch means corrupted data or a programming
// error, not a bad login attempt, so it fails fast.
func mustHaveValidLengths(hash []byte, salt []byte) {
	if len(hash) != HashLength {
		panic(fmt.Sprintf("password hash has length %d, want %d", len(hash), HashLength))
	}
	if len(salt) != SaltLength {
		panic(fmt.Sprintf("password salt has length %d, want %d", len(salt), SaltLength))
	}
}
