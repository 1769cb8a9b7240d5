package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	err := NewConflict("email taken", map[string]any{"email": "a@b.c"})
	domainErr := ToDomainError(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)
	assert.Equal(t, http.StatusConflict, domainErr.HTTPStatus)
}

func TestToDomainErrorNoRows(t *testing.T) {
	domainErr := ToDomainError(pgx.ErrNoRows)
	require.NotNil(t, domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	assert.Equal(t, http.StatusNotFound, domainErr.HTTPStatus)
}

func TestToDomainErrorGeneric(t *testing.T) {
	domainErr := ToDomainError(errors.New("boom"))
	require.NotNil(t, domainErr)
	assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
	assert.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
	// internal detail stays wrapped, not in the message
	assert.Equal(t, "internal server error", domainErr.Message)
}

func TestToDomainErrorWrapped(t *testing.T) {
	wrapped := errorsJoin(NewUnauthorized("bad token"))
	domainErr := ToDomainError(wrapped)
	require.NotNil(t, domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func errorsJoin(err error) error {
	return &wrapperErr{err: err}
}

type wrapperErr struct{ err error }

func (w *wrapperErr) Error() string { return "wrapped: " + w.err.Error() }
func (w *wrapperErr) Unwrap() error { return w.err }

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}
