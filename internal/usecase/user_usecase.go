package usecase

import (
	"context"

	"identity/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateUserInput defines the mutable profile fields of an account.
// An email change is re-checked for uniqueness before it is applied.
type UpdateUserInput struct {
	FirstName string
	LastName  string
	Email     string
}

// UserUsecase defines the interface for account-management operations.
// All lookups return the public projection; credential material never
// leaves the persistence boundary.
type UserUsecase interface {
	ListUsers(ctx context.Context) ([]*entity.PublicUser, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.PublicUser, error)
	GetUserByUsername(ctx context.Context, username string) (*entity.PublicUser, error)
	UpdateUser(ctx context.Context, id uuid.UUID, input *UpdateUserInput) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ChangeUserRole(ctx context.Context, id uuid.UUID, role entity.Role) error
}
