// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"identity/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
// Shape validation (lengths, email format) happens at the delivery layer;
// the usecase only enforces business rules.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Username string
	Password string
}

// --- Output DTO ---

// AuthResult is the uniform outcome of registration and login. Business-rule
// failures (duplicate username/email, bad credentials) are reported here with
// Success=false; they are never errors. Store and infrastructure failures
// propagate as errors instead.
type AuthResult struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Token   string             `json:"token,omitempty"`
	User    *entity.PublicUser `json:"user,omitempty"`
}

// AuthUsecase defines the interface for authentication operations.
// This is the contract that the delivery layer depends on.
type AuthUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input *LoginInput) (*AuthResult, error)
}
