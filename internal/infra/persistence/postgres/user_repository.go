package postgres

import (
	"context"

	"identity/internal/domain/entity"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/domain/repository"
	"identity/internal/errors"
	"identity/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a GORM-backed user repository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("username = ?", username).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to check username existence")
	}

	return count > 0, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("email = ?", email).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to check email existence")
	}

	return count > 0, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var record model.UserModel
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find user by username")
	}

	return toUserDomain(&record), nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var record model.UserModel
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find user by id")
	}

	return toUserDomain(&record), nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	var records []model.UserModel
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list users")
	}

	users := make([]*entity.User, 0, len(records))
	for i := range records {
		users = append(users, toUserDomain(&records[i]))
	}

	return users, nil
}

func (r *userRepository) Insert(ctx context.Context, user *entity.User) error {
	record := fromUserDomain(user)

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return mapWriteError(err, "failed to insert user")
	}

	// The database assigns the ID and creation timestamp.
	user.ID = record.ID
	user.CreatedAt = record.CreatedAt

	return nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	record := fromUserDomain(user)

	result := r.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", record.ID).
		Select("username", "email", "first_name", "last_name",
			"password_hash", "password_salt", "role", "last_login_at").
		Updates(record)
	if result.Error != nil {
		return mapWriteError(result.Error, "failed to update user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.UserModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// mapWriteError converts constraint violations on the write path into domain
// errors: unique-index collisions become the repository duplicate sentinels,
// not-null violations mean a record with missing required fields reached the
// store, and anything else is a generic database failure.
func mapWriteError(err error, details string) error {
	if isUniqueConstraintViolation(err) {
		switch {
		case violatedConstraint(err, "idx_users_username"):
			return repository.ErrDuplicateUsername
		case violatedConstraint(err, "idx_users_email"):
			return repository.ErrDuplicateEmail
		default:
			return domainerrors.NewDatabaseExecuteError(err, "unknown unique constraint violated")
		}
	}

	if isNotNullConstraintViolation(err) {
		return domainerrors.ErrValidationFailed.WrapMessage("missing required account fields")
	}

	return domainerrors.NewDatabaseExecuteError(err, details)
}

func toUserDomain(record *model.UserModel) *entity.User {
	return &entity.User{
		ID:           record.ID,
		Username:     record.Username,
		Email:        record.Email,
		FirstName:    record.FirstName,
		LastName:     record.LastName,
		PasswordHash: record.PasswordHash,
		PasswordSalt: record.PasswordSalt,
		Role:         entity.Role(record.Role),
		CreatedAt:    record.CreatedAt,
		LastLoginAt:  record.LastLoginAt,
	}
}

func fromUserDomain(user *entity.User) *model.UserModel {
	return &model.UserModel{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		PasswordHash: user.PasswordHash,
		PasswordSalt: user.PasswordSalt,
		Role:         user.Role.String(),
		CreatedAt:    user.CreatedAt,
		LastLoginAt:  user.LastLoginAt,
	}
}
