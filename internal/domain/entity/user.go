// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is a persisted identity record with credentials and role.
// PasswordHash and PasswordSalt are raw key material and must never cross the
// delivery boundary; responses use the PublicUser projection instead.
type User struct {
	ID           uuid.UUID  // The unique identifier for the account.
	Username     string     // Globally unique login name, 3-50 characters.
	Email        string     // Globally unique contact email.
	FirstName    string     // Optional given name.
	LastName     string     // Optional family name.
	PasswordHash []byte     // Keyed hash of the password, fixed length.
	PasswordSalt []byte     // Per-account random key material, fixed length.
	Role         Role       // Access level, always a valid Role value.
	CreatedAt    time.Time  // Set once when the account is inserted.
	LastLoginAt  *time.Time // Updated on every successful login, nil until then.
}

// PublicUser is the response-safe projection of a User. It is a distinct type
// so credential material cannot leak into a response by accident.
type PublicUser struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName,omitempty"`
	LastName    string     `json:"lastName,omitempty"`
	Role        Role       `json:"role"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// Public returns the response-safe projection of the user.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}

	return &PublicUser{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
