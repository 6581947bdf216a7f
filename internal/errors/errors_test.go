package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorWrapping(t *testing.T) {
	cause := stderrors.New("underlying")
	err := Wrap(cause, ErrCodeInternal, "something failed")

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsInternal(err))
	assert.Equal(t, "something failed: underlying", err.Error())
	assert.Equal(t, ErrCodeInternal, GetCode(err))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
}

func TestConstructors(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("missing")))
	assert.True(t, IsConflict(Conflict("dup")))
	assert.True(t, IsValidation(Validation("bad")))
	assert.True(t, IsInternal(Internal("boom")))

	ve := ValidationField("username", "required")
	assert.True(t, IsValidation(ve))
	assert.Equal(t, "username", ve.Field)
}

func TestGetCodeNonAppError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), GetCode(stderrors.New("plain")))
}
