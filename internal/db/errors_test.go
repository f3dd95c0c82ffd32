package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestCodeConflict(t *testing.T) {
	pgxErr := fmt.Errorf("lms.course insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: courseCodeUniqueIx})
	assert.ErrorIs(t, codeConflict(pgxErr), ErrCodeExists)

	pqErr := fmt.Errorf("lms.course update: %w", &pq.Error{Code: "23505", Constraint: courseCodeUniqueIx})
	assert.ErrorIs(t, codeConflict(pqErr), ErrCodeExists)

	other := &pgconn.PgError{Code: "23505", ConstraintName: "course_pkey"}
	assert.Same(t, error(other), codeConflict(other))

	boom := errors.New("connection reset")
	assert.Equal(t, boom, codeConflict(boom))
	assert.NoError(t, codeConflict(nil))
}

func TestCopyCode(t *testing.T) {
	assert.Equal(t, "OPS-7-copy", copyCode("OPS-7", 1))
	assert.Equal(t, "OPS-7-copy-2", copyCode("OPS-7", 2))
	assert.Equal(t, "OPS-7-copy-12", copyCode("OPS-7", 12))
}
