//go:build markdown

package cleaner

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"
)

var (
	mdImageRe = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	mdLinkRe  = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
)

// MarkdownCleaner converts HTML to Markdown using html-to-markdown.
// It parses the fragment into a DOM first, so unlike sanitize.Sanitizer it
// rebalances broken markup instead of reporting it. It is kept as a
// reference to compare sanitizer output against.
type MarkdownCleaner struct {
	cfg markdownConfig
}

// MarkdownOption configures the markdown cleaner.
type MarkdownOption func(*markdownConfig)

type markdownConfig struct {
	// StripLinks removes link URLs, keeping only the link text
	StripLinks bool
	// StripImages removes images entirely
	StripImages bool
}

// WithStripLinks configures the cleaner to remove link URLs.
func WithStripLinks(strip bool) MarkdownOption {
	return func(c *markdownConfig) {
		c.StripLinks = strip
	}
}

// WithStripImages configures the cleaner to remove images.
func WithStripImages(strip bool) MarkdownOption {
	return func(c *markdownConfig) {
		c.StripImages = strip
	}
}

// NewMarkdown creates a new Markdown cleaner.
func NewMarkdown(opts ...MarkdownOption) *MarkdownCleaner {
	c := &MarkdownCleaner{}
	for _, opt := range opts {
		opt(&c.cfg)
	}
	return c
}

// Clean converts HTML to Markdown.
func (c *MarkdownCleaner) Clean(html string) (string, error) {
	markdown, err := md.ConvertString(html)
	if err != nil {
		return "", err
	}

	// Images first, otherwise the link pattern eats the image brackets.
	if c.cfg.StripImages {
		markdown = mdImageRe.ReplaceAllString(markdown, "")
	}
	if c.cfg.StripLinks {
		markdown = mdLinkRe.ReplaceAllString(markdown, "$1")
	}

	return cleanWhitespace(markdown), nil
}

// Name returns the cleaner type.
func (c *MarkdownCleaner) Name() string {
	return "markdown"
}

// IsAvailable returns true when markdown cleaner is compiled in.
func (c *MarkdownCleaner) IsAvailable() bool {
	return true
}

// cleanWhitespace allows at most one blank line in a row and trims the ends.
func cleanWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	blank := false

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if !blank {
				result = append(result, "")
			}
			blank = true
			continue
		}
		blank = false
		result = append(result, line)
	}

	return strings.TrimSpace(strings.Join(result, "\n"))
}
