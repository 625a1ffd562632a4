package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnexpectedHidesCauseFromClients(t *testing.T) {
	cause := errors.New(`pq: duplicate key value violates unique constraint "users_email_key"`)
	e := Unexpected(cause)

	assert.Equal(t, http.StatusInternalServerError, e.Status)
	assert.Equal(t, "internal error", e.Message, "provider text must not reach the response body")
	assert.Contains(t, e.Error(), "pq:", "the cause stays visible to log lines")
	assert.True(t, errors.Is(e, cause))
}

func TestAsUnwraps(t *testing.T) {
	wrapped := error(NotFound("task"))
	e, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, e.Status)
	assert.Equal(t, "not_found", e.Code)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}
