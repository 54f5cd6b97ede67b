package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]int{"id": 7})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":7}`, rec.Body.String())

	rec = httptest.NewRecorder()
	JSON(rec, http.StatusNoContent, nil)
	assert.Empty(t, rec.Body.String())
}

func TestMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	Message(rec, http.StatusNotFound, "Newspaper not found")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Newspaper not found", decode(t, rec)["error"])
}

func TestSafeError(t *testing.T) {
	tests := []struct {
		name string
		code int
		err  error
		want string
	}{
		{name: "validation passes through", code: 400, err: errors.New("name is required"), want: "name is required"},
		{name: "not found passes through", code: 404, err: errors.New("country not found"), want: "country not found"},
		{name: "unknown 4xx hidden", code: 400, err: errors.New("pq: syntax error"), want: "internal server error"},
		{name: "5xx always hidden", code: 500, err: errors.New("invalid connection string"), want: "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			SafeError(rec, tt.code, tt.err)
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.want, decode(t, rec)["error"])
		})
	}

	rec := httptest.NewRecorder()
	SafeError(rec, 500, nil)
	assert.Empty(t, rec.Body.String())
}

func TestAppErrorOr(t *testing.T) {
	inner := errors.New("sql: connection refused")
	wrapped := fmt.Errorf("handler: %w", NewAppError(http.StatusInternalServerError, "Failed to build RSS feed", inner))

	rec := httptest.NewRecorder()
	AppErrorOr(rec, http.StatusBadRequest, wrapped)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to build RSS feed", decode(t, rec)["error"])

	rec = httptest.NewRecorder()
	AppErrorOr(rec, http.StatusBadRequest, errors.New("invalid id"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid id", decode(t, rec)["error"])

	appErr := NewAppError(404, "Article not found", inner)
	assert.ErrorIs(t, appErr, inner)
	assert.Equal(t, inner.Error(), appErr.Error())
	assert.Equal(t, "Article not found", NewAppError(404, "Article not found", nil).Error())
}

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "dial postgres://app:s3cret@db:5432/news failed", want: "dial postgres://app:****@db:5432/news failed"},
		{in: "upstream rejected Bearer abc.def-123", want: "upstream rejected Bearer ****"},
		{in: "token eyJhbGciOi.eyJzdWIiOi.c2lnbmF0dXJl leaked", want: "token **** leaked"},
		{in: "plain error", want: "plain error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeError(errors.New(tt.in)))
	}
	assert.Empty(t, SanitizeError(nil))
}
