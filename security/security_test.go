package security

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateContentType(t *testing.T) {
	assert.True(t, ValidateContentType("application/json"))
	assert.True(t, ValidateContentType("application/json; charset=utf-8"))
	assert.True(t, ValidateContentType("multipart/form-data; boundary=xyz"))
	assert.False(t, ValidateContentType("text/html"))
	assert.False(t, ValidateContentType(""))
}

func TestGenerateCSRFToken(t *testing.T) {
	first, err := GenerateCSRFToken()
	require.NoError(t, err)
	second, err := GenerateCSRFToken()
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestSanitizeHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer x")
	headers.Set("Cookie", "session=1")
	headers.Set("Accept", "application/json")

	sanitized := SanitizeHeaders(headers)
	assert.Empty(t, sanitized.Get("Authorization"))
	assert.Empty(t, sanitized.Get("Cookie"))
	assert.Equal(t, "application/json", sanitized.Get("Accept"))
}
