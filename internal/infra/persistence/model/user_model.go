package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. Username and email carry unique
// indexes; they are the final arbiter of uniqueness, not the service-level
// pre-checks. Credential material is stored as raw bytes.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex:idx_users_username;not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex:idx_users_email;not null"`
	FirstName    string    `gorm:"type:varchar(100)"`
	LastName     string    `gorm:"type:varchar(100)"`
	PasswordHash []byte    `gorm:"type:bytea;not null"`
	PasswordSalt []byte    `gorm:"type:bytea;not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:'USER'"`
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
