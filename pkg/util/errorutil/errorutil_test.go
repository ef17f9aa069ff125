package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	conflict := NewConflict("email already registered", nil)
	de := ToDomainError(fmt.Errorf("create user: %w", conflict))
	assert.Equal(t, CodeConflict, de.Code)
	assert.Equal(t, http.StatusConflict, de.HTTPStatus)

	de = ToDomainError(fmt.Errorf("get resume: %w", pgx.ErrNoRows))
	assert.Equal(t, CodeNotFound, de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)

	cause := errors.New("connection reset")
	de = ToDomainError(cause)
	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, "internal server error", de.Message)
	assert.ErrorIs(t, de, cause)
}

func TestWrapKeepsCause(t *testing.T) {
	sentinel := errors.New("credential expired")
	err := Wrap(NewDomainError(CodeCredentialExpired, "expired", http.StatusUnauthorized, nil), sentinel)

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, "expired: credential expired", err.Error())

	var de *DomainError
	require.True(t, errors.As(MapError(err), &de))
	assert.Equal(t, CodeCredentialExpired, de.Code)
}

func TestMapErrorNil(t *testing.T) {
	assert.NoError(t, MapError(nil))
}
