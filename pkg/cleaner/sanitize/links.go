package sanitize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var schemeRe = regexp.MustCompile(`(?i)^\s*([a-z][a-z0-9+.-]*):`)

// missingSchemeMarker is prefixed to protocol-relative URLs so the gap is
// visible in the output.
const missingSchemeMarker = "{scheme?}:"

type schemeClass int

const (
	schemeHTTP schemeClass = iota
	schemeMissing
	schemeBlocked
	schemeOther
)

// linkRenderer classifies and renders anchors and images, counting each
// classification exactly once per element.
type linkRenderer struct {
	blocked map[string]bool
	counts  *SanitizeCounts
}

// cleanURL strips everything from a URL that must never be embedded in it:
// whitespace, control characters, zero-width and bidi controls.
func cleanURL(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || isControl(r) || isZeroWidth(r) || isBidiControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(raw))
}

// urlScheme returns the lowercase scheme of url, or "".
func urlScheme(url string) string {
	m := schemeRe.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

func (r *linkRenderer) classify(url string, image bool) schemeClass {
	if strings.HasPrefix(url, "//") {
		if image {
			r.counts.MissingSchemeImages++
		} else {
			r.counts.MissingSchemeLinks++
		}
		return schemeMissing
	}
	scheme := urlScheme(url)
	if url != "" && r.blocked[scheme] {
		if image {
			r.counts.BlockedSchemeImages++
		} else {
			r.counts.BlockedSchemeLinks++
		}
		return schemeBlocked
	}
	if scheme != "" && scheme != "http" && scheme != "https" {
		if image {
			r.counts.OtherSchemeImages++
		} else {
			r.counts.OtherSchemeLinks++
		}
		return schemeOther
	}
	return schemeHTTP
}

// formatMissingScheme renders a protocol-relative link the same way in
// both output formats.
func formatMissingScheme(label, url, title string) string {
	marked := missingSchemeMarker + url
	switch {
	case label != "" && title != "":
		return fmt.Sprintf(`%s (%s "%s")`, label, marked, title)
	case label != "":
		return fmt.Sprintf(`%s (%s)`, label, marked)
	case title != "":
		return fmt.Sprintf(`%s "%s"`, marked, title)
	}
	return marked
}

// formatBlocked renders a link whose scheme is blocked. A label that
// repeats the URL in any letter case is replaced so the URL cannot leak
// through it.
func formatBlocked(label, url, rawURL, fallback string) string {
	lower := strings.ToLower(label)
	if label == "" || strings.Contains(lower, strings.ToLower(url)) ||
		(rawURL != "" && strings.Contains(lower, strings.ToLower(rawURL))) {
		label = fallback
	}
	return "[" + label + "]"
}

// anchorText renders an anchor for plain text output.
func (r *linkRenderer) anchorText(url, rawURL, label, title string) string {
	switch r.classify(url, false) {
	case schemeMissing:
		return formatMissingScheme(label, url, title)
	case schemeBlocked:
		return formatBlocked(label, url, rawURL, "link")
	}
	switch {
	case label != "" && url != "" && title != "":
		return fmt.Sprintf(`%s (%s "%s")`, label, url, title)
	case label != "" && url != "":
		return fmt.Sprintf(`%s (%s)`, label, url)
	case url != "" && title != "":
		return fmt.Sprintf(`%s "%s"`, url, title)
	case url != "":
		return url
	}
	return label
}

// anchorMarkdown renders an anchor as a Markdown link.
func (r *linkRenderer) anchorMarkdown(url, rawURL, label, title string) string {
	switch r.classify(url, false) {
	case schemeMissing:
		return formatMissingScheme(label, url, title)
	case schemeBlocked:
		return formatBlocked(label, url, rawURL, "link")
	}
	if url == "" {
		return label
	}
	if label == "" {
		label = url
	}
	if title != "" {
		return fmt.Sprintf(`[%s](%s "%s")`, label, url, title)
	}
	return fmt.Sprintf(`[%s](%s)`, label, url)
}

// imageMarkdown renders an image as Markdown image syntax.
func (r *linkRenderer) imageMarkdown(src, rawSrc, alt, title string) string {
	switch r.classify(src, true) {
	case schemeMissing:
		return formatMissingScheme(alt, src, title)
	case schemeBlocked:
		return formatBlocked(alt, src, rawSrc, "image")
	}
	switch {
	case src != "" && title != "":
		return fmt.Sprintf(`![%s](%s "%s")`, alt, src, title)
	case src != "":
		return fmt.Sprintf(`![%s](%s)`, alt, src)
	}
	return alt
}

// convertAnchors renders every <a>...</a> span. Anchors without an end tag
// are left for the tag stripper.
func (d *document) convertAnchors(r *linkRenderer, markdown bool) {
	d.eachSpan(anchorTags, func(start, end int) {
		a := d.pieces[start].tok
		rawURL := a.attr("href")
		url := cleanURL(rawURL)
		title := a.attr("title")
		label := d.innerText(start, end)

		var out string
		if markdown {
			out = r.anchorMarkdown(url, rawURL, label, title)
		} else {
			if label == "" && d.hasInner(start, end) {
				if im := d.firstOpen(imgTags, start, end); im != nil {
					label = im.attr("alt")
					if label == "" {
						label = "image"
					}
				}
			}
			out = r.anchorText(url, rawURL, label, title)
		}
		d.replaceSpan(start, end, out)
		d.counts.AnchorsConverted++
	})
}

// convertImages renders every <img> as Markdown.
func (d *document) convertImages(r *linkRenderer) {
	d.counts.ImagesConverted += d.render(func(t *token) (string, bool) {
		if !t.isOpen(imgTags) {
			return "", false
		}
		rawSrc := t.attr("src")
		return r.imageMarkdown(cleanURL(rawSrc), rawSrc, t.attr("alt"), t.attr("title")), true
	})
}
