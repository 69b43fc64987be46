package httperr

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteKnownError(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, ErrNotFound)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":"not_found","message":"Not Found"}`, rec.Body.String())
}

func TestWriteWithDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, ErrConflict.WithDetail("email already registered"))

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"code":"conflict","message":"Conflict","detail":"email already registered"}`, rec.Body.String())
}

func TestWithDetailDoesNotMutateSentinel(t *testing.T) {
	_ = ErrForbidden.WithDetail("role user may not delete")
	assert.Empty(t, ErrForbidden.Detail)
}

func TestWriteUnknownErrorBecomesInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, errors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.JSONEq(t, `{"code":"internal","message":"Internal Server Error"}`, rec.Body.String())
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "[not_found] Not Found", ErrNotFound.Error())
	assert.Equal(t, "[conflict] Conflict: duplicate", ErrConflict.WithDetail("duplicate").Error())
}
