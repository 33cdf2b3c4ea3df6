// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"identity/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for user persistence. The duplicate errors are the
// distinguishable constraint-violated outcomes: uniqueness is ultimately
// enforced by the store's unique indexes, not by the service pre-check, so a
// racing insert surfaces as one of these rather than as a raw driver error.
var (
	// ErrUserNotFound is returned when no account matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUsername is returned when an insert or update violates the username uniqueness constraint.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrDuplicateEmail is returned when an insert or update violates the email uniqueness constraint.
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository defines the standard operations for account persistence.
// The application layer depends on this interface, not the concrete implementation.
type UserRepository interface {
	// ExistsByUsername reports whether an account with the given username exists.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail reports whether an account with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// FindByUsername retrieves a single account by its unique username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByID retrieves a single account by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindAll retrieves every account, ordered by creation time.
	FindAll(ctx context.Context) ([]*entity.User, error)

	// Insert persists a new account and assigns its ID and CreatedAt.
	Insert(ctx context.Context, user *entity.User) error

	// Update modifies an existing account.
	Update(ctx context.Context, user *entity.User) error

	// Delete removes an account by ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
