package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello", SanitizeInput("  hello  "))
	assert.Equal(t, "", SanitizeInput("<script>alert(1)</script>"))
	assert.NotContains(t, SanitizeInput("<b>bold</b>"), "<b>")
}

func TestSanitizeEmail(t *testing.T) {
	email, err := SanitizeEmail("  Alice@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)

	_, err = SanitizeEmail("not-an-email")
	assert.Error(t, err)
}

func TestSanitizeUsername(t *testing.T) {
	username, err := SanitizeUsername(" Alice_01 ")
	require.NoError(t, err)
	assert.Equal(t, "alice_01", username)

	_, err = SanitizeUsername("ab")
	assert.Error(t, err)

	_, err = SanitizeUsername("has spaces")
	assert.Error(t, err)
}

func TestExtractHashtags(t *testing.T) {
	tags := ExtractHashtags("Loving the #Sunset at the #beach today! #sunset again")
	assert.Equal(t, []string{"sunset", "beach"}, tags)

	assert.Empty(t, ExtractHashtags("no tags here"))
}

func TestExtractMentions(t *testing.T) {
	mentions := ExtractMentions("shoutout to @alice and @Bob, thanks @alice!")
	assert.Equal(t, []string{"alice", "bob"}, mentions)
}

func TestEscapeRegex(t *testing.T) {
	// A literal dot must not act as a wildcard
	assert.Equal(t, `a\.b`, EscapeRegex("a.b"))
}
