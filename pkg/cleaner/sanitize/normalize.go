package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	spaceRunRe         = regexp.MustCompile(`[ \t]+`)
	adjacentTextRe     = regexp.MustCompile(`\)\s*([A-Za-z0-9\[{])`)
	adjacentMarkdownRe = regexp.MustCompile(`\)\s*([!\[A-Za-z0-9{])`)
	orderedMarkerRe    = regexp.MustCompile(`^\d+\.$`)
	headingMarkerRe    = regexp.MustCompile(`^#{1,6}$`)
	orderedItemRe      = regexp.MustCompile(`^\d+\.\s+`)
)

// normLine is one output line as seen by the normalizer passes.
// Fence and code lines are never merged, collapsed or dropped as blanks.
type normLine struct {
	text  string
	fence bool
	code  bool
}

func (l normLine) verbatim() bool {
	return l.fence || l.code
}

// NormalizeLines cleans converted plain text: whitespace runs collapse,
// dangling list and heading markers join their content, blank lines between
// list items go away and blank runs shrink to one. delim is the table
// delimiter; with a tab delimiter each cell is cleaned separately and empty
// trailing cells are dropped.
//
// The result is empty or ends in exactly one newline, and
// NormalizeLines(NormalizeLines(x, d), d) == NormalizeLines(x, d).
func NormalizeLines(text, delim string) string {
	clean := func(l string) string {
		return cleanTextLine(l, delim)
	}
	raw := strings.Split(text, "\n")
	lines := make([]normLine, len(raw))
	for i, l := range raw {
		lines[i] = normLine{text: clean(l)}
	}
	return finishLines(lines, clean)
}

// NormalizeMarkdown is NormalizeLines for Markdown output. Lines inside
// ``` fences keep their content and only lose trailing whitespace; blank
// lines touching a fence from the inside are dropped.
func NormalizeMarkdown(text string) string {
	raw := strings.Split(text, "\n")
	lines := make([]normLine, 0, len(raw))
	inCode := false
	for _, l := range raw {
		trimmed := strings.TrimSpace(l)
		if strings.HasPrefix(trimmed, "```") {
			inCode = !inCode
			lines = append(lines, normLine{text: trimmed, fence: true})
			continue
		}
		if inCode {
			lines = append(lines, normLine{text: strings.TrimRightFunc(l, unicode.IsSpace), code: true})
			continue
		}
		lines = append(lines, normLine{text: cleanMarkdownLine(l)})
	}
	return finishLines(trimCodeEdges(lines), cleanMarkdownLine)
}

func cleanTextLine(line, delim string) string {
	if delim == "\t" {
		parts := strings.Split(line, "\t")
		for i, part := range parts {
			parts[i] = separateAdjacent(collapseSpaces(part), false)
		}
		line = strings.Join(parts, "\t")
	} else {
		line = separateAdjacent(collapseSpaces(line), false)
	}
	return strings.TrimRight(line, " \t")
}

func cleanMarkdownLine(line string) string {
	return separateAdjacent(collapseSpaces(line), true)
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(s, " "))
}

// separateAdjacent puts a space between a closing paren and a word or
// link that follows it directly, e.g. "(https://a.example)Next".
func separateAdjacent(line string, markdown bool) string {
	if !strings.Contains(line, ")") {
		return line
	}
	if markdown {
		return adjacentMarkdownRe.ReplaceAllString(line, ") $1")
	}
	return adjacentTextRe.ReplaceAllString(line, ") $1")
}

// finishLines runs the line passes over cleaned lines. clean is applied
// again to lines built by joining a marker with its content.
func finishLines(lines []normLine, clean func(string) string) string {
	lines = mergeDanglingMarkers(lines, clean)
	lines = dropListBlankLines(lines)

	out := make([]string, 0, len(lines))
	blank := false
	for _, l := range lines {
		if l.verbatim() {
			out = append(out, l.text)
			blank = false
			continue
		}
		if l.text == "" {
			if !blank {
				out = append(out, "")
				blank = true
			}
			continue
		}
		blank = false
		out = append(out, l.text)
	}

	cleaned := strings.Trim(strings.Join(out, "\n"), "\n")
	if cleaned == "" {
		return ""
	}
	return cleaned + "\n"
}

func isMarker(text string) bool {
	return text == "-" || orderedMarkerRe.MatchString(text) || headingMarkerRe.MatchString(text)
}

func isListItem(text string) bool {
	text = strings.TrimLeftFunc(text, unicode.IsSpace)
	return strings.HasPrefix(text, "- ") || orderedItemRe.MatchString(text)
}

func isBlankLine(l normLine) bool {
	return !l.verbatim() && l.text == ""
}

// mergeDanglingMarkers joins a lone marker line with the next content
// line, skipping blank lines in between. A marker followed by another
// marker, or by nothing at all, is dropped. A marker followed by a code
// fence stays where it is.
func mergeDanglingMarkers(lines []normLine, clean func(string) string) []normLine {
	merged := make([]normLine, 0, len(lines))
	for i := 0; i < len(lines); {
		l := lines[i]
		if l.verbatim() || !isMarker(l.text) {
			merged = append(merged, l)
			i++
			continue
		}

		j := i + 1
		for j < len(lines) && isBlankLine(lines[j]) {
			j++
		}
		switch {
		case j == len(lines):
			i = j
		case lines[j].verbatim():
			merged = append(merged, l)
			i++
		case isMarker(lines[j].text):
			i = j
		default:
			merged = append(merged, normLine{text: clean(l.text + " " + lines[j].text)})
			i = j + 1
		}
	}
	return merged
}

// dropListBlankLines removes blank runs sitting between two list items.
func dropListBlankLines(lines []normLine) []normLine {
	cleaned := make([]normLine, 0, len(lines))
	for i := 0; i < len(lines); {
		if !isBlankLine(lines[i]) {
			cleaned = append(cleaned, lines[i])
			i++
			continue
		}

		j := i + 1
		for j < len(lines) && isBlankLine(lines[j]) {
			j++
		}
		if j < len(lines) && len(cleaned) > 0 {
			prev, next := cleaned[len(cleaned)-1], lines[j]
			if !prev.verbatim() && !next.verbatim() && isListItem(prev.text) && isListItem(next.text) {
				i = j
				continue
			}
		}
		cleaned = append(cleaned, lines[i])
		i++
	}
	return cleaned
}

// trimCodeEdges drops blank lines at the start and end of each code block.
func trimCodeEdges(lines []normLine) []normLine {
	out := make([]normLine, 0, len(lines))
	for i := 0; i < len(lines); {
		if !lines[i].code {
			out = append(out, lines[i])
			i++
			continue
		}
		j := i
		for j < len(lines) && lines[j].code {
			j++
		}
		block := lines[i:j]
		for len(block) > 0 && block[0].text == "" {
			block = block[1:]
		}
		for len(block) > 0 && block[len(block)-1].text == "" {
			block = block[:len(block)-1]
		}
		out = append(out, block...)
		i = j
	}
	return out
}
