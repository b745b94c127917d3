package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fastygo/taskboard/domain"
)

const (
	uniqueViolation = "23505"
	invalidText     = "22P02"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func nullString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func dateValue(d domain.Date) interface{} {
	if d.IsZero() {
		return nil
	}
	return d.Time
}

// isMalformedID reports a value that could not be parsed as a uuid; such
// ids cannot match any row.
func isMalformedID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidText
}
