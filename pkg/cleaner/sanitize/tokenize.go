package sanitize

import (
	"strings"

	"golang.org/x/net/html"
)

type tokenKind int

const (
	textToken tokenKind = iota
	startToken
	endToken
	selfClosingToken
	commentToken
	// markupToken covers doctypes, bogus comments such as <?php ?> and a
	// tag cut off by the end of input. It is only ever stripped.
	markupToken
)

// token is one element of the flat stream the rewrite stages work on.
// Tag names are lowercase; attribute values are entity-decoded once.
type token struct {
	kind  tokenKind
	name  string
	attrs []html.Attribute
	raw   string
}

// attr returns the first attribute named key, trimmed.
func (t *token) attr(key string) string {
	for _, a := range t.attrs {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func (t *token) isOpen(names tagSet) bool {
	return (t.kind == startToken || t.kind == selfClosingToken) && names[t.name]
}

func (t *token) isClose(names tagSet) bool {
	return t.kind == endToken && names[t.name]
}

// tagSet is a set of lowercase tag names.
type tagSet map[string]bool

func tags(names ...string) tagSet {
	s := make(tagSet, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}

// rawTextKeep lists elements that the tokenizer would otherwise read as
// raw text. Their content is markup like any other here; only script and
// style bodies stay opaque so they can be removed whole.
var rawTextKeep = tags("iframe", "noembed", "noframes", "noscript", "plaintext", "textarea", "title", "xmp")

// tokenize splits a fragment into a flat token stream. It never fails:
// malformed markup degrades into text or markup tokens.
func tokenize(fragment string) []token {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var toks []token
	for {
		tt := z.Next()
		raw := string(z.Raw())
		switch tt {
		case html.ErrorToken:
			// A tag left open at the end of input is reported as an error
			// with its bytes still in Raw.
			if raw != "" {
				toks = append(toks, token{kind: markupToken, raw: raw})
			}
			return toks
		case html.TextToken:
			toks = append(toks, token{kind: textToken, raw: raw})
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			t := z.Token()
			kind := startToken
			switch tt {
			case html.EndTagToken:
				kind = endToken
			case html.SelfClosingTagToken:
				kind = selfClosingToken
			}
			toks = append(toks, token{kind: kind, name: t.Data, attrs: t.Attr, raw: raw})
			if kind != endToken && rawTextKeep[t.Data] {
				z.NextIsNotRawText()
			}
		case html.CommentToken:
			kind := markupToken
			if strings.HasPrefix(raw, "<!--") {
				kind = commentToken
			}
			toks = append(toks, token{kind: kind, raw: raw})
		default:
			toks = append(toks, token{kind: markupToken, raw: raw})
		}
	}
}
