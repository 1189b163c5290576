package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a duplicate-key failure from
// postgres or sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ViolatedColumn guesses which column a unique violation was raised on.
// Returns "" when it cannot tell.
func ViolatedColumn(err error, columns ...string) string {
	if err == nil {
		return ""
	}
	var pgErr *pgconn.PgError
	text := err.Error()
	if errors.As(err, &pgErr) {
		text = pgErr.ConstraintName + " " + pgErr.Detail
	}
	for _, col := range columns {
		if strings.Contains(text, col) {
			return col
		}
	}
	return ""
}
