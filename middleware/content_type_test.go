package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runContentTypeGuard(t *testing.T, method, contentType string, body string) int {
	t.Helper()

	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/api/posts", reader)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := ContentTypeGuard()(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, handler(c))
	return rec.Code
}

func TestContentTypeGuardAcceptsJSON(t *testing.T) {
	code := runContentTypeGuard(t, http.MethodPost, "application/json", `{"content":"hi"}`)
	assert.Equal(t, http.StatusOK, code)
}

func TestContentTypeGuardAcceptsMultipartWithBoundary(t *testing.T) {
	code := runContentTypeGuard(t, http.MethodPost, "multipart/form-data; boundary=xyz", "--xyz--")
	assert.Equal(t, http.StatusOK, code)
}

func TestContentTypeGuardRejectsUnsupportedBody(t *testing.T) {
	code := runContentTypeGuard(t, http.MethodPost, "text/plain", "hello")
	assert.Equal(t, http.StatusUnsupportedMediaType, code)
}

func TestContentTypeGuardIgnoresReads(t *testing.T) {
	code := runContentTypeGuard(t, http.MethodGet, "text/plain", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestContentTypeGuardIgnoresEmptyBody(t *testing.T) {
	code := runContentTypeGuard(t, http.MethodPost, "", "")
	assert.Equal(t, http.StatusOK, code)
}
