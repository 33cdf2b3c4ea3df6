// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the keyed-hash algorithm, keeping the domain pure.
type PasswordHasher interface {
	// Hash derives a keyed hash from a plaintext password using a freshly
	// generated random salt. Salt is never reused across calls.
	Hash(password string) (hash []byte, salt []byte, err error)

	// Verify recomputes the keyed hash of password with the stored salt and
	// compares it against the stored hash in constant time.
	Verify(password string, hash []byte, salt []byte) bool
}
