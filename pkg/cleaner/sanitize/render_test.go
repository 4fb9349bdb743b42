package sanitize

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
)

// TestMarkdownRenders feeds converted output through a CommonMark renderer
// to check that the generated syntax parses as the intended elements.
func TestMarkdownRenders(t *testing.T) {
	input := `<h2>Guide</h2><p>Read <a href="https://go.dev" title="Go">the docs</a>.</p>` +
		`<ul><li>One</li><li>Two</li></ul>` +
		`<img src="https://go.dev/logo.png" alt="Logo">` +
		`<pre><code>go test ./...</code></pre>`

	md := Convert(input, markdownOptions()).Content

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		t.Fatalf("goldmark.Convert() error = %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"<h2>Guide</h2>",
		`<a href="https://go.dev" title="Go">the docs</a>`,
		"<li>One</li>",
		`<img src="https://go.dev/logo.png" alt="Logo"`,
		"<pre><code>go test ./...\n</code></pre>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing %q\nmarkdown:\n%s\nhtml:\n%s", want, md, html)
		}
	}
}

func TestBlockedLinkRendersAsText(t *testing.T) {
	md := Convert(`<a href="javascript:alert(1)">Click</a>`, markdownOptions()).Content

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		t.Fatalf("goldmark.Convert() error = %v", err)
	}
	if strings.Contains(buf.String(), "<a ") {
		t.Errorf("blocked link rendered as an anchor: %s", buf.String())
	}
}
