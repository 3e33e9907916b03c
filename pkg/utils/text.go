// Package utils provides small text helpers shared across NewsBrief.
package utils

import (
	"regexp"
	"strings"
)

var (
	htmlTagRe    = regexp.MustCompile(`<.*?>`)
	urlRe        = regexp.MustCompile(`https?://\S+|www\.\S+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonWordRe    = regexp.MustCompile(`[^\w]`)
)

// CleanText normalizes fetched article text: strips HTML tags and URLs,
// then collapses runs of whitespace.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = htmlTagRe.ReplaceAllString(text, "")
	text = urlRe.ReplaceAllString(text, "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// SafeFileKey converts an arbitrary string into a filesystem-safe key
// by replacing every non-word character with an underscore.
func SafeFileKey(s string) string {
	return nonWordRe.ReplaceAllString(s, "_")
}

// Truncate shortens s to at most n runes, appending "..." when it cuts.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
