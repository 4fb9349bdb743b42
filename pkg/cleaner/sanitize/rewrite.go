package sanitize

import (
	"regexp"
	"strings"
)

// piece is either text that is final as far as tag handling goes, or a
// markup token that no stage has claimed yet.
type piece struct {
	text string
	tok  *token
}

func (p *piece) pending() bool {
	return p.tok != nil
}

func (p *piece) set(text string) {
	p.text, p.tok = text, nil
}

// document is a fragment being rewritten stage by stage. Stages claim the
// pending tokens they understand and turn them into text; whatever is
// still pending at the end is stripped.
type document struct {
	pieces []piece
	counts *SanitizeCounts
}

func newDocument(fragment string, counts *SanitizeCounts) *document {
	toks := tokenize(fragment)
	pieces := make([]piece, len(toks))
	for i := range toks {
		if toks[i].kind == textToken {
			pieces[i] = piece{text: toks[i].raw}
			continue
		}
		pieces[i] = piece{tok: &toks[i]}
	}
	return &document{pieces: pieces, counts: counts}
}

// render replaces every pending token that fn claims and returns how many
// were claimed.
func (d *document) render(fn func(t *token) (string, bool)) int {
	n := 0
	for i := range d.pieces {
		p := &d.pieces[i]
		if !p.pending() {
			continue
		}
		if text, ok := fn(p.tok); ok {
			p.set(text)
			n++
		}
	}
	return n
}

func (d *document) renderOpen(names tagSet, text string) int {
	return d.render(func(t *token) (string, bool) {
		return text, t.isOpen(names)
	})
}

func (d *document) renderClose(names tagSet, text string) int {
	return d.render(func(t *token) (string, bool) {
		return text, t.isClose(names)
	})
}

func (d *document) renderTag(names tagSet, text string) int {
	return d.render(func(t *token) (string, bool) {
		return text, t.isOpen(names) || t.isClose(names)
	})
}

// findClose returns the index of the first pending end tag in names at
// or after from, or -1.
func (d *document) findClose(names tagSet, from int) int {
	for i := from; i < len(d.pieces); i++ {
		if p := &d.pieces[i]; p.pending() && p.tok.isClose(names) {
			return i
		}
	}
	return -1
}

// eachSpan calls fn for every pending start tag in names together with the
// first pending end tag after it. Scanning resumes after the end tag.
// A start tag without a matching end tag is left alone.
func (d *document) eachSpan(names tagSet, fn func(start, end int)) {
	for i := 0; i < len(d.pieces); i++ {
		p := &d.pieces[i]
		if !p.pending() || !p.tok.isOpen(names) {
			continue
		}
		j := d.findClose(names, i+1)
		if j < 0 {
			return
		}
		fn(i, j)
		i = j
	}
}

// replaceSpan renders pieces start..end (inclusive) as a single text.
func (d *document) replaceSpan(start, end int, text string) {
	d.pieces[start].set(text)
	for k := start + 1; k <= end; k++ {
		d.pieces[k].set("")
	}
}

// innerText flattens the pieces strictly between start and end, turning
// pending tokens into a space, then decodes entities and trims.
func (d *document) innerText(start, end int) string {
	var sb strings.Builder
	for k := start + 1; k < end; k++ {
		p := &d.pieces[k]
		if p.pending() {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteString(p.text)
	}
	return strings.TrimSpace(unescape(sb.String()))
}

// hasInner reports whether anything at all sits between start and end.
func (d *document) hasInner(start, end int) bool {
	for k := start + 1; k < end; k++ {
		if p := &d.pieces[k]; p.pending() || p.text != "" {
			return true
		}
	}
	return false
}

// firstOpen returns the first pending start tag in names between start and
// end, or nil.
func (d *document) firstOpen(names tagSet, start, end int) *token {
	for k := start + 1; k < end; k++ {
		if p := &d.pieces[k]; p.pending() && p.tok.isOpen(names) {
			return p.tok
		}
	}
	return nil
}

// skipBlank returns the first index at or after from that is not blank
// text.
func (d *document) skipBlank(from int) int {
	for from < len(d.pieces) {
		p := &d.pieces[from]
		if p.pending() || strings.TrimSpace(p.text) != "" {
			break
		}
		from++
	}
	return from
}

// compact merges runs of adjacent text pieces. Pending tokens still
// separate runs, the same way an unconverted tag separates text.
func (d *document) compact() {
	out := make([]piece, 0, len(d.pieces))
	var sb strings.Builder
	inRun := false
	flush := func() {
		if inRun {
			out = append(out, piece{text: sb.String()})
			sb.Reset()
			inRun = false
		}
	}
	for _, p := range d.pieces {
		if p.pending() {
			flush()
			out = append(out, p)
			continue
		}
		sb.WriteString(p.text)
		inRun = true
	}
	flush()
	d.pieces = out
}

// rewriteText applies re to every run of text.
func (d *document) rewriteText(re *regexp.Regexp, repl string) {
	d.compact()
	for i := range d.pieces {
		if p := &d.pieces[i]; !p.pending() {
			p.text = re.ReplaceAllString(p.text, repl)
		}
	}
}

// String joins the pieces. Pending tokens contribute their raw markup.
func (d *document) String() string {
	var sb strings.Builder
	for i := range d.pieces {
		p := &d.pieces[i]
		if p.pending() {
			sb.WriteString(p.tok.raw)
			continue
		}
		sb.WriteString(p.text)
	}
	return sb.String()
}
