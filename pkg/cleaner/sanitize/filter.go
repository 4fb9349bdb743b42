package sanitize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FilterOptions configures Filter.
type FilterOptions struct {
	Replace      string
	KeepTabs     bool
	KeepNewlines bool
	ASCIIOnly    bool
}

// Filter removes control, zero-width and (optionally) non-ASCII characters.
// A single Replace string is written for each run of removed characters.
// counts may be nil.
func Filter(text string, opts FilterOptions, counts *FilterCounts) string {
	if counts == nil {
		counts = &FilterCounts{}
	}
	if opts.ASCIIOnly {
		text = norm.NFKD.String(text)
	}

	var sb strings.Builder
	sb.Grow(len(text))
	inRun := false
	for _, r := range text {
		drop := true
		switch {
		case r == '\n':
			if opts.KeepNewlines {
				drop = false
			} else {
				counts.Newlines++
			}
		case r == '\t':
			if opts.KeepTabs {
				drop = false
			} else {
				counts.Tabs++
			}
		case isControl(r):
			counts.Control++
		case isZeroWidth(r):
			counts.ZeroWidth++
		case opts.ASCIIOnly && r >= 0x80:
			counts.NonASCII++
		default:
			drop = false
		}

		if !drop {
			inRun = false
			sb.WriteRune(r)
			continue
		}
		if !inRun && opts.Replace != "" {
			sb.WriteString(opts.Replace)
			counts.Replacements++
		}
		inRun = true
	}
	return sb.String()
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7F
}

func isZeroWidth(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\ufeff':
		return true
	}
	return false
}

func isBidiControl(r rune) bool {
	switch r {
	case '\u200e', '\u200f',
		'\u202a', '\u202b', '\u202c', '\u202d', '\u202e',
		'\u2066', '\u2067', '\u2068', '\u2069':
		return true
	}
	return false
}
