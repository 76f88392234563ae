package ingest

import (
	"reflect"
	"strings"
	"testing"
)

func TestCleanText_LowercasesAndFiltersStopwords(t *testing.T) {
	got := cleanText("The Quick Brown Fox and the Lazy Dog")
	want := []string{"quick", "brown", "fox", "lazy", "dog"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cleanText = %v, want %v", got, want)
	}
}

func TestCleanText_KeepsDigits(t *testing.T) {
	got := cleanText("Go 1.22 was released in 2024")
	want := []string{"go", "1", "22", "released", "2024"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cleanText = %v, want %v", got, want)
	}
}

func TestCleanText_Empty(t *testing.T) {
	if got := cleanText(""); len(got) != 0 {
		t.Errorf("expected no tokens, got %v", got)
	}
}

func TestExtractParagraphs(t *testing.T) {
	page := `<html><body>
		<h1>Headline</h1>
		<p>First paragraph with a <a href="#">link</a>.</p>
		<p class="lead">Second &amp; final.</p>
		<div>outside paragraphs</div>
	</body></html>`

	got := extractParagraphs(page)
	if !strings.Contains(got, "First paragraph") || !strings.Contains(got, "Second & final.") {
		t.Errorf("unexpected extraction %q", got)
	}
	if strings.Contains(got, "Headline") || strings.Contains(got, "outside paragraphs") {
		t.Errorf("non-paragraph content leaked into %q", got)
	}
}

func TestExtractParagraphs_NoParagraphs(t *testing.T) {
	if got := extractParagraphs("<div>no p tags</div>"); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestExtractParagraphs_MultilineParagraph(t *testing.T) {
	page := "<p>\nspans\nlines\n</p>"
	got := extractParagraphs(page)
	if !strings.Contains(got, "spans") || !strings.Contains(got, "lines") {
		t.Errorf("multiline paragraph not extracted: %q", got)
	}
}
