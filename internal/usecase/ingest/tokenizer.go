package ingest

import (
	"html"
	"regexp"
	"strings"
)

var (
	wordRegex      = regexp.MustCompile(`[a-zA-Z0-9]+`)
	paragraphRegex = regexp.MustCompile(`(?is)<p[\s>].*?</p>`)
	tagRegex       = regexp.MustCompile(`(?s)<[^>]*>`)
)

// cleanText lowercases text and returns its alphanumeric word tokens with
// English stopwords removed.
func cleanText(text string) []string {
	words := wordRegex.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if !stopwords[w] {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// extractParagraphs pulls the text content of every <p> element from an
// HTML page and joins it with single spaces. Good enough for news article
// bodies; anything outside paragraph elements is ignored.
func extractParagraphs(page string) string {
	var parts []string
	for _, p := range paragraphRegex.FindAllString(page, -1) {
		text := strings.TrimSpace(html.UnescapeString(tagRegex.ReplaceAllString(p, " ")))
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
