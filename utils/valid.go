// utils/valid.go
package utils

import (
	"errors"
	"html"
	"regexp"
	"strings"
	"unicode"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	hashtagRegex  = regexp.MustCompile(`#([a-zA-Z0-9_]+)`)
	mentionRegex  = regexp.MustCompile(`@([a-zA-Z0-9_]+)`)
	scriptRegex   = regexp.MustCompile(`<script[^>]*>.*?</script>`)
)

// SanitizeInput sanitizes user input to prevent XSS and injection attacks
func SanitizeInput(input string) string {
	// Trim spaces
	input = strings.TrimSpace(input)

	// Remove any potential script tags before escaping
	input = scriptRegex.ReplaceAllString(input, "")

	// HTML escape
	input = html.EscapeString(input)

	// Remove control characters
	input = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)

	return input
}

// SanitizeEmail sanitizes and validates an email address
func SanitizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	if !emailRegex.MatchString(email) {
		return "", errors.New("invalid email format")
	}

	return email, nil
}

// SanitizeUsername lowercases and validates a username handle.
func SanitizeUsername(username string) (string, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	if !usernameRegex.MatchString(username) {
		return "", errors.New("username must be 3-30 characters of letters, digits or underscores")
	}

	return username, nil
}

// ExtractHashtags returns the unique, lowercased hashtags found in content,
// without the leading '#'.
func ExtractHashtags(content string) []string {
	matches := hashtagRegex.FindAllStringSubmatch(content, -1)
	seen := make(map[string]bool)
	tags := []string{}
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

// ExtractMentions returns the unique, lowercased @handles found in content,
// without the leading '@'.
func ExtractMentions(content string) []string {
	matches := mentionRegex.FindAllStringSubmatch(content, -1)
	seen := make(map[string]bool)
	handles := []string{}
	for _, m := range matches {
		handle := strings.ToLower(m[1])
		if !seen[handle] {
			seen[handle] = true
			handles = append(handles, handle)
		}
	}
	return handles
}

// SanitizeStringArray sanitizes an array of strings
func SanitizeStringArray(inputs []string) []string {
	sanitized := make([]string, len(inputs))
	for i, input := range inputs {
		sanitized[i] = SanitizeInput(input)
	}
	return sanitized
}

// EscapeRegex quotes characters that are meaningful in a regular expression
// so user-supplied search terms match literally.
func EscapeRegex(term string) string {
	return regexp.QuoteMeta(term)
}
