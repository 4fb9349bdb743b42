package sanitize

import (
	"fmt"
	"regexp"
	"strings"
)

const codeFence = "\n```\n"

var (
	anchorTags   = tags("a")
	imgTags      = tags("img")
	blockTags    = tags("script", "style")
	brTags       = tags("br")
	headingTags  = tags("h1", "h2", "h3", "h4", "h5", "h6")
	liTags       = tags("li")
	olTags       = tags("ol")
	listTags     = tags("ul", "ol")
	trTags       = tags("tr")
	cellTags     = tags("td", "th")
	tableTags    = tags("table", "thead", "tbody", "tfoot")
	preTags      = tags("pre")
	codeTags     = tags("code")
	strongTags   = tags("strong", "b")
	emTags       = tags("em", "i")
	pTags        = tags("p")
	textBlocks   = tags("p", "div", "section", "article", "header", "footer", "blockquote", "figure", "figcaption", "form", "label", "input", "textarea", "button", "pre", "code", "hr")
	markdownDivs = tags("div", "section", "article", "header", "footer", "blockquote", "figure", "figcaption")

	listGapRe   = regexp.MustCompile(`\n{2,}- `)
	strayPipeRe = regexp.MustCompile(`\n\s*\|\s*`)
)

// removeBlocks drops script and style elements with their bodies, and
// comments. Each becomes a single space. A script or style element that is
// never closed takes the rest of the fragment with it.
func (d *document) removeBlocks() {
	for i := 0; i < len(d.pieces); i++ {
		p := &d.pieces[i]
		if !p.pending() || !p.tok.isOpen(blockTags) {
			continue
		}
		end := d.findClose(tags(p.tok.name), i+1)
		if end < 0 {
			end = len(d.pieces) - 1
		}
		d.replaceSpan(i, end, " ")
		d.counts.BlocksRemoved++
		i = end
	}
	d.counts.CommentsRemoved += d.render(func(t *token) (string, bool) {
		return " ", t.kind == commentToken
	})
}

// convertHeadings turns <hN> into a newline and N hashes, and </hN> into
// closeText.
func (d *document) convertHeadings(closeText string) {
	d.counts.HeadingsConverted += d.render(func(t *token) (string, bool) {
		if !t.isOpen(headingTags) {
			return "", false
		}
		level := int(t.name[1] - '0')
		return "\n" + strings.Repeat("#", level) + " ", true
	})
	d.counts.BlocksConverted += d.renderClose(headingTags, closeText)
}

// numberOrderedLists renumbers the items of each <ol> span from 1. The
// first end tag closes the span, so a nested list shares its parent's
// numbering up to its own end tag.
func (d *document) numberOrderedLists() {
	d.eachSpan(olTags, func(start, end int) {
		n := 0
		for k := start + 1; k < end; k++ {
			p := &d.pieces[k]
			if !p.pending() {
				continue
			}
			switch {
			case p.tok.isOpen(liTags):
				n++
				prefix := ""
				if n > 1 {
					prefix = "\n"
				}
				p.set(fmt.Sprintf("%s%d. ", prefix, n))
			case p.tok.isClose(liTags):
				p.set("")
			}
		}
		d.pieces[start].set("\n")
		d.pieces[end].set("\n")
		d.counts.ListItemsConverted += n
	})
}

// convertCodeFences turns <pre> blocks into ``` fences. <pre><code> and
// </code></pre> (whitespace allowed between) collapse into one fence each.
func (d *document) convertCodeFences() int {
	n := 0
	pair := func(outer, inner func(t *token) bool) {
		for i := range d.pieces {
			p := &d.pieces[i]
			if !p.pending() || !outer(p.tok) {
				continue
			}
			k := d.skipBlank(i + 1)
			if k < len(d.pieces) && d.pieces[k].pending() && inner(d.pieces[k].tok) {
				d.replaceSpan(i, k, codeFence)
				n++
			}
		}
	}
	pair(func(t *token) bool { return t.isOpen(preTags) }, func(t *token) bool { return t.isOpen(codeTags) })
	pair(func(t *token) bool { return t.isClose(codeTags) }, func(t *token) bool { return t.isClose(preTags) })
	n += d.renderTag(preTags, codeFence)
	return n
}

// stripTags replaces every token still pending with a space.
func (d *document) stripTags() int {
	return d.render(func(*token) (string, bool) {
		return " ", true
	})
}

// convertRows turns </tr> into a newline and puts delim in front of every
// cell that does not start a line. A cell starts a line when nothing but
// whitespace has been written since a row or table boundary, a block tag
// or a newline. It returns the rows and cells converted.
func (d *document) convertRows(delim string) (rows, cells int) {
	lineStart := true
	for i := range d.pieces {
		p := &d.pieces[i]
		if !p.pending() {
			if strings.TrimSpace(p.text) != "" {
				lineStart = false
			}
			if strings.HasSuffix(strings.TrimRight(p.text, " \t"), "\n") {
				lineStart = true
			}
			continue
		}
		switch t := p.tok; {
		case t.isOpen(trTags):
			p.set("")
			lineStart = true
		case t.isClose(trTags):
			p.set("\n")
			rows++
			lineStart = true
		case t.isOpen(cellTags):
			if lineStart {
				p.set("")
			} else {
				p.set(delim)
			}
			cells++
			lineStart = false
		case t.isClose(cellTags):
			p.set("")
		case t.isOpen(tableTags), t.isClose(tableTags), t.isOpen(textBlocks), t.isClose(textBlocks):
			lineStart = true
		}
	}
	return rows, cells
}

// convertText applies the plain text rules in order. Later rules only see
// tokens earlier rules left pending.
func convertText(d *document, r *linkRenderer, delim string) {
	c := d.counts

	d.convertAnchors(r, false)

	c.BlocksConverted += d.renderOpen(brTags, "\n")
	d.convertHeadings("\n")

	d.numberOrderedLists()
	c.ListItemsConverted += d.renderOpen(liTags, "- ")
	c.BlocksConverted += d.renderClose(liTags, "\n")
	c.BlocksConverted += d.renderTag(listTags, "\n")
	d.rewriteText(listGapRe, "\n- ")

	rows, cells := d.convertRows(delim)
	c.BlocksConverted += rows
	c.TableCellsConverted += cells
	d.renderTag(tableTags, "")

	c.BlocksConverted += d.renderTag(textBlocks, "\n")
}

// convertMarkdown applies the Markdown rules in order.
func convertMarkdown(d *document, r *linkRenderer) {
	c := d.counts

	c.BlocksConverted += d.convertCodeFences()
	d.convertHeadings("\n\n")

	d.renderTag(strongTags, "**")
	d.renderTag(emTags, "*")
	d.renderTag(codeTags, "`")

	c.BlocksConverted += d.renderOpen(brTags, "\n")
	c.BlocksConverted += d.renderTag(pTags, "\n\n")
	c.BlocksConverted += d.renderTag(markdownDivs, "\n\n")

	d.numberOrderedLists()
	c.ListItemsConverted += d.renderOpen(liTags, "\n- ")
	d.renderClose(liTags, "")
	c.BlocksConverted += d.renderTag(listTags, "\n")
	d.rewriteText(listGapRe, "\n- ")

	c.BlocksConverted += d.renderTag(trTags, "\n")
	c.TableCellsConverted += d.renderOpen(cellTags, " | ")
	d.renderClose(cellTags, "")
	d.renderTag(tableTags, "\n")
	d.rewriteText(strayPipeRe, "\n")

	d.convertImages(r)
	d.convertAnchors(r, true)
}
