package domain

import (
	"fmt"
	"strings"
)

// SnippetTokens is the number of leading tokens used for result previews.
const SnippetTokens = 30

// Document is one pre-tokenized corpus article (immutable value object).
// Title and URL are carried for presentation; retrieval only reads Tokens.
type Document struct {
	id     string
	url    string
	title  string
	tokens []string
}

// NewDocument validates and creates a Document.
func NewDocument(id, url, title string, tokens []string) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	return Document{id: id, url: url, title: title, tokens: tokens}, nil
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// URL returns the source article URL.
func (d *Document) URL() string { return d.url }

// Title returns the article title.
func (d *Document) Title() string { return d.title }

// Tokens returns the pre-tokenized content. Callers must not mutate it;
// the corpus is shared read-only across concurrent agent runs.
func (d *Document) Tokens() []string { return d.tokens }

// Snippet returns the first SnippetTokens tokens joined by single spaces.
func (d *Document) Snippet() string {
	n := len(d.tokens)
	if n > SnippetTokens {
		n = SnippetTokens
	}
	return strings.Join(d.tokens[:n], " ")
}
