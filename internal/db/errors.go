package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

var (
	ErrCodeExists = errors.New("course code already exists")
	ErrNameExists = errors.New("name already exists")
)

const (
	uniqueViolation    = "23505"
	courseCodeUniqueIx = "course_code_live_uniq"
)

// isUniqueViolation reports a 23505 on constraint from either driver.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraint
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation && pqErr.Constraint == constraint
	}
	return false
}

// codeConflict turns a lost race on the live course code index into ErrCodeExists.
func codeConflict(err error) error {
	if isUniqueViolation(err, courseCodeUniqueIx) {
		return ErrCodeExists
	}
	return err
}
