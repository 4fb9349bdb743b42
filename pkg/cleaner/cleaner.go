// Package cleaner provides interfaces and implementations for cleaning page content.
// Cleaners turn stored HTML fragments, or text already derived from them, into
// output suitable for writing to per-page files.
package cleaner

// Cleaner transforms content into a cleaner format.
// The main implementation is sanitize.Sanitizer, which converts HTML
// fragments to plain text or Markdown.
type Cleaner interface {
	// Clean transforms the input into a cleaned format.
	// The output format depends on the implementation (markdown, plain text, etc.).
	Clean(content string) (string, error)

	// Name returns the cleaner type for logging/debugging.
	Name() string
}
