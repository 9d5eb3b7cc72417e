// utils/assist.go
package utils

import (
	"fmt"
	"sort"
	"strings"
)

// Stop words excluded when mining keywords from post text.
var assistStopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "at": true, "be": true,
	"but": true, "by": true, "for": true, "from": true, "has": true,
	"have": true, "i": true, "in": true, "is": true, "it": true, "its": true,
	"my": true, "of": true, "on": true, "or": true, "our": true, "so": true,
	"that": true, "the": true, "their": true, "this": true, "to": true,
	"was": true, "we": true, "were": true, "with": true, "you": true,
	"your": true,
}

// captionTemplates are cycled through deterministically based on the topic.
var captionTemplates = []string{
	"Sharing some thoughts on %s today.",
	"Can't stop thinking about %s.",
	"A little moment with %s.",
	"Here's what %s looks like from where I stand.",
}

// ExtractKeywords mines the most frequent non-stop-words from text, longest
// and most frequent first. Deterministic for a given input.
func ExtractKeywords(text string, limit int) []string {
	counts := make(map[string]int)
	for _, raw := range strings.Fields(strings.ToLower(text)) {
		word := strings.Trim(raw, ".,!?;:\"'()[]#@")
		if len(word) < 3 || assistStopWords[word] {
			continue
		}
		counts[word]++
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})

	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return words
}

// SuggestCaption produces a caption suggestion for a topic. The same topic
// always yields the same caption.
func SuggestCaption(topic string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "Another day, another story."
	}

	// Pick a template by a stable hash of the topic
	var sum int
	for _, r := range topic {
		sum += int(r)
	}
	template := captionTemplates[sum%len(captionTemplates)]
	return fmt.Sprintf(template, topic)
}

// SuggestHashtags derives hashtag suggestions from post text: its mined
// keywords plus any tags already present.
func SuggestHashtags(text string, limit int) []string {
	if limit <= 0 {
		limit = 5
	}

	seen := make(map[string]bool)
	tags := []string{}

	for _, t := range ExtractHashtags(text) {
		if !seen[t] {
			seen[t] = true
			tags = append(tags, "#"+t)
		}
	}

	for _, w := range ExtractKeywords(text, limit*2) {
		if len(tags) >= limit {
			break
		}
		if !seen[w] {
			seen[w] = true
			tags = append(tags, "#"+w)
		}
	}

	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags
}
