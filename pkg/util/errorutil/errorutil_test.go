package errorutil

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewConflict("already exists", map[string]any{"field": "email"})
	mapped := ToDomainError(original)
	require.NotNil(t, mapped)
	assert.Equal(t, "CONFLICT", mapped.Code)
	assert.Equal(t, http.StatusConflict, mapped.HTTPStatus)
	assert.Equal(t, "email", mapped.Details["field"])
}

func TestToDomainErrorRowMiss(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	require.NotNil(t, mapped)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorWrappedRowMiss(t *testing.T) {
	mapped := ToDomainError(errors.Join(errors.New("load charge"), pgx.ErrNoRows))
	require.NotNil(t, mapped)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
}

func TestToDomainErrorUnknown(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))
	require.NotNil(t, mapped)
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
	assert.Equal(t, "internal server error", mapped.Message)
}

func TestTokenTooOldShape(t *testing.T) {
	mapped := ToDomainError(NewTokenTooOld())
	require.NotNil(t, mapped)
	assert.Equal(t, "TOKEN_TOO_OLD", mapped.Code)
	assert.Equal(t, http.StatusUnauthorized, mapped.HTTPStatus)
}

func TestUnauthorizedShape(t *testing.T) {
	mapped := ToDomainError(NewUnauthorized("invalid or expired token"))
	require.NotNil(t, mapped)
	assert.Equal(t, "UNAUTHORIZED", mapped.Code)
	assert.Equal(t, http.StatusUnauthorized, mapped.HTTPStatus)
	assert.Equal(t, "invalid or expired token", mapped.Message)
}
