package service

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"identity/internal/domain/entity"
)

// Claims defines the identity attributes embedded in a signed token.
type Claims struct {
	UserID   uuid.UUID
	Username string
	Email    string
	Role     entity.Role
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and validating signed,
// self-contained identity tokens. There is no server-side session store.
type TokenService interface {
	// Issue creates a signed, time-bounded token carrying the account's
	// id, username, email and role.
	Issue(user *entity.User) (string, error)

	// Validate checks a token's signature, expiration, issuer and audience,
	// and returns the embedded claims.
	Validate(tokenString string) (*Claims, error)
}
