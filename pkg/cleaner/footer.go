package cleaner

import (
	"strings"
	"unicode"
)

// DefaultFooterHeadings are the line texts that start the shared site
// footer appended to every page body.
var DefaultFooterHeadings = []string{"resources", "community"}

// FooterStripper drops everything from the first line that reads as a
// footer heading. Lines are compared trimmed and case-insensitively, so
// "Resources" matches but "## Resources" does not.
type FooterStripper struct {
	headings map[string]bool
}

// NewFooterStripper creates a footer stripper. With no headings it uses
// DefaultFooterHeadings.
func NewFooterStripper(headings ...string) *FooterStripper {
	if len(headings) == 0 {
		headings = DefaultFooterHeadings
	}
	set := make(map[string]bool, len(headings))
	for _, h := range headings {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			set[h] = true
		}
	}
	return &FooterStripper{headings: set}
}

// Clean cuts text at the first footer heading. The kept part loses its
// trailing whitespace and ends in a single newline, or is empty. Text
// without a footer heading is returned unchanged.
func (c *FooterStripper) Clean(text string) (string, error) {
	if text == "" {
		return text, nil
	}
	lines := splitLines(text)
	for i, line := range lines {
		if !c.headings[strings.ToLower(strings.TrimSpace(line))] {
			continue
		}
		kept := strings.TrimRightFunc(strings.Join(lines[:i], "\n"), unicode.IsSpace)
		if kept == "" {
			return "", nil
		}
		return kept + "\n", nil
	}
	return text, nil
}

// Name returns the cleaner type.
func (c *FooterStripper) Name() string {
	return "footer"
}

// splitLines splits on LF, CRLF and CR.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}
