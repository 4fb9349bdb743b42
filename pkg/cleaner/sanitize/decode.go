package sanitize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// mysql -e writes control characters inside a field as backslash escapes.
var escapeReplacer = strings.NewReplacer(`\r`, "\r", `\n`, "\n", `\t`, "\t")

// DecodeEscapes turns the literal sequences \r, \n and \t into the
// characters they name. No other escapes are touched.
func DecodeEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return escapeReplacer.Replace(s)
}

var (
	entityRe        = regexp.MustCompile(`&[A-Za-z0-9#]+;`)
	lineEndReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\u00a0", " ")
)

// DecodeEntities resolves HTML entities, turns non-breaking spaces into
// plain spaces and normalizes line endings to \n. Every entity-shaped
// sequence counts towards EntitiesRemoved. counts may be nil.
func DecodeEntities(text string, counts *SanitizeCounts) string {
	if counts != nil {
		counts.EntitiesRemoved += len(entityRe.FindAllStringIndex(text, -1))
	}
	return lineEndReplacer.Replace(unescape(text))
}

func unescape(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return html.UnescapeString(s)
}
