// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"identity/config"
	"identity/internal/domain/entity"
	"identity/internal/domain/service"
)

// minSecretLength is the minimum signing key size for HS256.
const minSecretLength = 32

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// tokenClaims is the wire representation of service.Claims.
type tokenClaims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.JWT == nil {
		return nil, errors.New("jwt configuration must be provided")
	}
	if len(cfg.JWT.Secret) < minSecretLength {
		return nil, errors.Errorf("jwt secret must be at least %d bytes", minSecretLength)
	}

	return &jwtService{
		secret:   []byte(cfg.JWT.Secret),
		issuer:   cfg.JWT.Issuer,
		audience: cfg.JWT.Audience,
		ttl:      time.Duration(cfg.JWT.ExpirationMinutes) * time.Minute,
	}, nil
}

// Issue creates a signed token embedding the account's identity claims.
// The token is self-contained; no session state is kept server-side.
func (s *jwtService) Issue(user *entity.User) (string, error) {
	now := time.Now().UTC()

	claims := tokenClaims{
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Validate checks the token's signature, expiration, issuer and audience,
// and returns the embedded identity claims.
func (s *jwtService) Validate(tokenString string) (*service.Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse token")
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.Wrap(err, "invalid subject claim")
	}

	role, ok := entity.ParseRole(claims.Role)
	if !ok {
		return nil, errors.Errorf("unknown role claim: %s", claims.Role)
	}

	return &service.Claims{
		UserID:           userID,
		Username:         claims.Username,
		Email:            claims.Email,
		Role:             role,
		RegisteredClaims: claims.RegisteredClaims,
	}, nil
}
