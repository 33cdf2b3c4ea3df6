// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "identity/internal/delivery/context"
	"identity/internal/domain/entity"
	"identity/internal/domain/repository"
	"identity/internal/domain/service"
	"identity/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Messages returned in AuthResult. The two login failure paths share one
// message so responses cannot be used to probe which usernames exist.
const (
	msgUsernameTaken      = "Username already exists"
	msgEmailTaken         = "Email already exists"
	msgInvalidCredentials = "Invalid username or password"
	msgRegistered         = "User registered successfully"
	msgLoggedIn           = "Login successful"
)

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo repository.UserRepository
	hasher   service.PasswordHasher
	tokenSvc service.TokenService
	logger   *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo repository.UserRepository
	Hasher   service.PasswordHasher
	TokenSvc service.TokenService
	Logger   *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		userRepo: params.UserRepo,
		hasher:   params.Hasher,
		tokenSvc: params.TokenSvc,
		logger:   params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func failure(message string) *usecase.AuthResult {
	return &usecase.AuthResult{Success: false, Message: message}
}

// Register orchestrates the complete registration process: uniqueness checks,
// password hashing, persistence and token issuance.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthResult, error) {
	srv.log(ctx).Info("Starting registration", slog.String("username", input.Username))

	usernameTaken, err := srv.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check username uniqueness")
	}
	if usernameTaken {
		srv.log(ctx).Warn("Registration rejected, username taken", slog.String("username", input.Username))

		return failure(msgUsernameTaken), nil
	}

	emailTaken, err := srv.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check email uniqueness")
	}
	if emailTaken {
		srv.log(ctx).Warn("Registration rejected, email taken", slog.String("username", input.Username))

		return failure(msgEmailTaken), nil
	}

	hash, salt, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	newUser := &entity.User{
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
		PasswordSalt: salt,
		Role:         entity.RoleUser,
	}

	// The exists checks above are advisory: check-then-insert is not atomic,
	// so a racing registration surfaces here as a duplicate error from the
	// store's uniqueness constraint and maps to the same business failure.
	if err := srv.userRepo.Insert(ctx, newUser); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			srv.log(ctx).Warn("Registration lost insert race on username", slog.String("username", input.Username))

			return failure(msgUsernameTaken), nil
		case errors.Is(err, repository.ErrDuplicateEmail):
			srv.log(ctx).Warn("Registration lost insert race on email", slog.String("username", input.Username))

			return failure(msgEmailTaken), nil
		default:
			return nil, errors.Wrap(err, "failed to insert user during registration")
		}
	}

	token, err := srv.tokenSvc.Issue(newUser)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token during registration")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", newUser.ID))

	return &usecase.AuthResult{
		Success: true,
		Message: msgRegistered,
		Token:   token,
		User:    newUser.Public(),
	}, nil
}

// Login verifies the credentials, records the login time and issues a token.
// Unknown-username and wrong-password attempts return identical results.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthResult, error) {
	srv.log(ctx).Debug("Starting login", slog.String("username", input.Username))

	user, err := srv.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed, unknown username", slog.String("username", input.Username))

			return failure(msgInvalidCredentials), nil
		}

		return nil, errors.Wrap(err, "failed to find user during login")
	}

	if !srv.hasher.Verify(input.Password, user.PasswordHash, user.PasswordSalt) {
		srv.log(ctx).Warn("Login failed, password mismatch", slog.String("username", input.Username))

		return failure(msgInvalidCredentials), nil
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to record login time")
	}

	token, err := srv.tokenSvc.Issue(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token during login")
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return &usecase.AuthResult{
		Success: true,
		Message: msgLoggedIn,
		Token:   token,
		User:    user.Public(),
	}, nil
}
