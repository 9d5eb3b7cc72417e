package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fireRequest(t *testing.T, e *echo.Echo, limiter *RateLimiter, path string) int {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set("X-Real-IP", "203.0.113.7")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)

	handler := limiter.RateLimit()(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, handler(c))
	return rec.Code
}

func TestRateLimiterBlocksLoginBursts(t *testing.T) {
	e := echo.New()
	limiter := NewRateLimiter()

	// Login allows a burst of 5, the 6th hits the limit
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, fireRequest(t, e, limiter, "/api/auth/login"))
	}
	assert.Equal(t, http.StatusTooManyRequests, fireRequest(t, e, limiter, "/api/auth/login"))

	// The IP is now blocked outright
	assert.Equal(t, http.StatusTooManyRequests, fireRequest(t, e, limiter, "/api/auth/login"))
}

func TestRateLimiterSkipsUploads(t *testing.T) {
	e := echo.New()
	limiter := NewRateLimiter()

	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusOK, fireRequest(t, e, limiter, "/uploads/posts/x.jpg"))
	}
}
