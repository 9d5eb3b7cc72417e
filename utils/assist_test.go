package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestCaptionDeterministic(t *testing.T) {
	first := SuggestCaption("mountain hiking")
	second := SuggestCaption("mountain hiking")
	assert.Equal(t, first, second)
	assert.Contains(t, first, "mountain hiking")
}

func TestSuggestCaptionEmptyTopic(t *testing.T) {
	assert.NotEmpty(t, SuggestCaption("   "))
}

func TestExtractKeywords(t *testing.T) {
	keywords := ExtractKeywords("coffee coffee morning ritual with coffee and a book", 3)
	assert.Len(t, keywords, 3)
	assert.Equal(t, "coffee", keywords[0])
	// Stop words never surface
	assert.NotContains(t, keywords, "with")
	assert.NotContains(t, keywords, "and")
}

func TestSuggestHashtags(t *testing.T) {
	tags := SuggestHashtags("Morning run along the river, feeling great #running", 4)
	assert.NotEmpty(t, tags)
	assert.LessOrEqual(t, len(tags), 4)
	// Existing tags come first
	assert.Equal(t, "#running", tags[0])
	for _, tag := range tags {
		assert.Regexp(t, `^#[a-z0-9_]+$`, tag)
	}
}

func TestSuggestHashtagsDeterministic(t *testing.T) {
	text := "Sunset photography at the pier"
	assert.Equal(t, SuggestHashtags(text, 5), SuggestHashtags(text, 5))
}
