//go:build markdown

package cleaner

import (
	"strings"
	"testing"
)

// --- MarkdownCleaner Tests ---

func TestMarkdownCleaner_Clean(t *testing.T) {
	tests := []struct {
		name  string
		html  string
		wants []string
	}{
		{"heading and paragraph", `<h1>Title</h1><p>A paragraph.</p>`, []string{"# Title", "A paragraph."}},
		{"headers", `<h1>H1</h1><h2>H2</h2><h3>H3</h3>`, []string{"# H1", "## H2", "### H3"}},
		{"list", `<ul><li>Item 1</li><li>Item 2</li></ul>`, []string{"Item 1", "Item 2"}},
		{"link", `<a href="https://example.com">Example Link</a>`, []string{"Example Link", "example.com"}},
		{"unbalanced list is rebalanced", `<ul><li>One<li>Two`, []string{"One", "Two"}},
	}

	c := NewMarkdown()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Clean(tt.html)
			if err != nil {
				t.Fatalf("Clean() error = %v", err)
			}
			for _, want := range tt.wants {
				if !strings.Contains(got, want) {
					t.Errorf("expected %q in output, got %q", want, got)
				}
			}
		})
	}
}

func TestMarkdownCleaner_StripOptions(t *testing.T) {
	html := `<p><a href="https://example.com/page">Read more</a> <img src="https://example.com/a.png" alt="Alt"></p>`

	got, err := NewMarkdown(WithStripLinks(true), WithStripImages(true)).Clean(html)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if strings.Contains(got, "example.com") {
		t.Errorf("expected URLs to be stripped, got %q", got)
	}
	if !strings.Contains(got, "Read more") {
		t.Errorf("expected link text to be kept, got %q", got)
	}
	if strings.Contains(got, "Alt") {
		t.Errorf("expected image to be removed, got %q", got)
	}
}

func TestMarkdownCleaner_Name(t *testing.T) {
	c := NewMarkdown()
	if got := c.Name(); got != "markdown" {
		t.Errorf("Name() = %q, want %q", got, "markdown")
	}
}

// --- cleanWhitespace Tests ---

func TestCleanWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"multiple blank lines", "Line 1\n\n\n\n\nLine 2", "Line 1\n\nLine 2"},
		{"leading and trailing space", "\n\n  Content  \n\n", "Content"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanWhitespace(tt.input); got != tt.want {
				t.Errorf("cleanWhitespace() = %q, want %q", got, tt.want)
			}
		})
	}
}
