package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorWrapsUnknown(t *testing.T) {
	base := errors.New("boom")
	appErr := FromError(base)

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.ErrorIs(t, appErr, base)
}

func TestCloneKeepsIdentity(t *testing.T) {
	cloned := Clone(ErrConfiguration, "end_date must not be before start_date")
	wrapped := fmt.Errorf("resolve window: %w", cloned)

	assert.ErrorIs(t, wrapped, ErrConfiguration)
	assert.NotErrorIs(t, wrapped, ErrValidation)
	assert.Equal(t, "end_date must not be before start_date", FromError(wrapped).Message)
	assert.Equal(t, "invalid report configuration", ErrConfiguration.Message)
}

func TestNilSafety(t *testing.T) {
	var e *Error
	assert.Equal(t, "<nil>", e.Error())
	assert.Nil(t, e.Unwrap())
	assert.Nil(t, FromError(nil))
	assert.Nil(t, Clone(nil, "x"))
}
