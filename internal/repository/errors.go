package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// visitorPerScheduleIndex is the unique index guarding one booking per visitor per schedule
const visitorPerScheduleIndex = "uniq_visit_bookings_schedule_visitor"

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation && (constraint == "" || pgErr.ConstraintName == constraint)
	}
	return false
}

// IsDuplicateKeyError reports whether err is a unique violation on a constraint containing field
func IsDuplicateKeyError(err error, field string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return field == "" || containsFold(pgErr.ConstraintName, field) || containsFold(pgErr.Detail, field)
	}
	return false
}

// IsCheckViolation reports whether err comes from a CHECK constraint
func IsCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
