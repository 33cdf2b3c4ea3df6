package postgres

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Helper functions for PostgreSQL error checking.

func isUniqueConstraintViolation(err error) bool {
	// GORM surfaces this through the TranslateError session option.
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// violatedConstraint reports which unique index a duplicate-key error names,
// so callers can distinguish a username collision from an email collision.
func violatedConstraint(err error, constraint string) bool {
	return strings.Contains(err.Error(), constraint)
}

func isNotNullConstraintViolation(err error) bool {
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "null value") ||
		strings.Contains(errMsg, "not null") ||
		strings.Contains(errMsg, "23502") // PostgreSQL not_null_violation error code
}
