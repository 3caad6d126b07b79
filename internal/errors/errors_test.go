package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, ErrCodeInternal, "something failed")

	assert.Equal(t, "something failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestCodePredicates(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("x")))
	assert.True(t, IsConflict(Conflict("x")))
	assert.True(t, IsValidation(Validation("x")))
	assert.True(t, IsUnauthorized(Unauthorized("x")))
	assert.True(t, IsForbidden(Forbidden("x")))

	// Predicates see through wrapping.
	wrapped := fmt.Errorf("outer: %w", NotFoundf("user %s", "u1"))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))
}

func TestMapDBError_NoRows(t *testing.T) {
	err := MapDBError(pgx.ErrNoRows)
	assert.True(t, IsNotFound(err))
}

func TestMapDBError_ContextErrors(t *testing.T) {
	var appErr *AppError

	require.ErrorAs(t, MapDBError(context.DeadlineExceeded), &appErr)
	assert.Equal(t, ErrCodeTimeout, appErr.Code)

	require.ErrorAs(t, MapDBError(context.Canceled), &appErr)
	assert.Equal(t, ErrCodeCanceled, appErr.Code)
}

func TestMapDBError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:   pgerrcode.UniqueViolation,
		Detail: `Key (email)=(a@b.edu) already exists.`,
	}

	err := MapDBError(pgErr)
	require.True(t, IsConflict(err))

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "email", appErr.Field)
}

func TestMapDBError_ForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:   pgerrcode.ForeignKeyViolation,
		Detail: `Key (id)=(d1) is still referenced from table "courses".`,
	}

	err := MapDBError(pgErr)
	require.True(t, IsForeignKey(err))
	assert.Contains(t, err.Error(), "a course")
}

func TestMapDBError_PassThrough(t *testing.T) {
	plain := errors.New("not a db error")
	assert.Equal(t, plain, MapDBError(plain))
	assert.NoError(t, MapDBError(nil))
}
