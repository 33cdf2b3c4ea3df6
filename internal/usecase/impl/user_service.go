package impl

import (
	"context"
	"log/slog"

	deliverycontext "identity/internal/delivery/context"
	"identity/internal/domain/entity"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/domain/repository"
	"identity/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	UserRepo repository.UserRepository
	Logger   *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		userRepo: params.UserRepo,
		logger:   params.Logger,
	}
}

func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListUsers returns the public projection of every account.
func (srv *userService) ListUsers(ctx context.Context) ([]*entity.PublicUser, error) {
	users, err := srv.userRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	projections := make([]*entity.PublicUser, 0, len(users))
	for _, user := range users {
		projections = append(projections, user.Public())
	}

	return projections, nil
}

// GetUserByID returns the public projection of a single account.
func (srv *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.PublicUser, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("no user with this id")
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return user.Public(), nil
}

// GetUserByUsername returns the public projection of a single account.
func (srv *userService) GetUserByUsername(ctx context.Context, username string) (*entity.PublicUser, error) {
	user, err := srv.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("no user with this username")
		}

		return nil, errors.Wrap(err, "failed to find user by username")
	}

	return user.Public(), nil
}

// UpdateUser changes the profile fields of an account. An email change is
// re-checked for uniqueness; the store's unique index is the final arbiter.
func (srv *userService) UpdateUser(ctx context.Context, id uuid.UUID, input *usecase.UpdateUserInput) error {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound.WrapMessage("cannot update missing user")
		}

		return errors.Wrap(err, "failed to load user for update")
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName

	if input.Email != "" && input.Email != user.Email {
		emailTaken, err := srv.userRepo.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return errors.Wrap(err, "failed to check email uniqueness for update")
		}
		if emailTaken {
			srv.log(ctx).Warn("Update rejected, email taken", slog.Any("userID", id))

			return domainerrors.ErrEmailTaken.WrapMessage("email already in use by another account")
		}

		user.Email = input.Email
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return domainerrors.ErrEmailTaken.WrapMessage("email already in use by another account")
		}

		return errors.Wrap(err, "failed to update user")
	}

	srv.log(ctx).Info("User updated", slog.Any("userID", id))

	return nil
}

// DeleteUser removes an account permanently.
func (srv *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := srv.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound.WrapMessage("cannot delete missing user")
		}

		return errors.Wrap(err, "failed to delete user")
	}

	srv.log(ctx).Info("User deleted", slog.Any("userID", id))

	return nil
}

// ChangeUserRole elevates or demotes an account to the given role.
func (srv *userService) ChangeUserRole(ctx context.Context, id uuid.UUID, role entity.Role) error {
	if !role.IsValid() {
		return domainerrors.ErrInvalidRole.WrapMessage("role must be USER or ADMIN")
	}

	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound.WrapMessage("cannot change role of missing user")
		}

		return errors.Wrap(err, "failed to load user for role change")
	}

	user.Role = role
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to persist role change")
	}

	srv.log(ctx).Info("User role changed", slog.Any("userID", id), slog.String("role", role.String()))

	return nil
}
