package errors

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapDBError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, MapDBError(nil))
	})

	t.Run("no rows", func(t *testing.T) {
		assert.True(t, IsNotFound(MapDBError(pgx.ErrNoRows)))
	})

	t.Run("context deadline", func(t *testing.T) {
		err := MapDBError(context.DeadlineExceeded)
		assert.Equal(t, ErrCodeTimeout, GetCode(err))
	})

	t.Run("unique violation extracts field from detail", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:   pgerrcode.UniqueViolation,
			Detail: "Key (username)=(budi) already exists.",
		}
		err := MapDBError(pgErr)
		assert.True(t, IsConflict(err))
		var appErr *AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, "username", appErr.Field)
	})

	t.Run("not null violation", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "role"}
		err := MapDBError(pgErr)
		assert.True(t, IsValidation(err))
	})

	t.Run("unrecognized passes through", func(t *testing.T) {
		plain := stderrors.New("network down")
		assert.Equal(t, plain, MapDBError(plain))
	})
}
