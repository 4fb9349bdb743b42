// Package pages converts matched dump rows into page text, one page at a
// time or concurrently.
package pages

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jmylchreest/pagetext/internal/logger"
	"github.com/jmylchreest/pagetext/pkg/cleaner"
	"github.com/jmylchreest/pagetext/pkg/cleaner/sanitize"
	"github.com/jmylchreest/pagetext/pkg/dump"
	"github.com/jmylchreest/pagetext/pkg/focus"
)

// ErrMissingPage marks a result whose entry matched no row.
var ErrMissingPage = errors.New("missing page")

// Result is the conversion of one matched page.
type Result struct {
	// Index is the position of the match in the input slice.
	Index int
	Page  string
	Label string
	Row   *dump.Row

	Content string
	// Notags is the tag-free intermediate text, when captured.
	Notags string

	Sanitize sanitize.SanitizeCounts
	Filter   sanitize.FilterCounts
	// Structure holds list and table balance warnings for the fragment.
	Structure []string

	Error error
}

// Missing reports whether the entry matched no row.
func (r *Result) Missing() bool {
	return errors.Is(r.Error, ErrMissingPage)
}

// Warnings returns the messages worth surfacing for this page.
func (r *Result) Warnings() []string {
	if r.Missing() {
		return []string{fmt.Sprintf("Missing page: %s", r.Page)}
	}
	var warnings []string
	for _, w := range r.Structure {
		warnings = append(warnings, fmt.Sprintf("%s in page '%s'", w, r.Page))
	}
	c := r.Sanitize
	for _, w := range []struct {
		label string
		n     int
	}{
		{"Non-HTTP scheme links", c.OtherSchemeLinks},
		{"Non-HTTP scheme images", c.OtherSchemeImages},
		{"Missing scheme links", c.MissingSchemeLinks},
		{"Missing scheme images", c.MissingSchemeImages},
	} {
		if w.n > 0 {
			warnings = append(warnings, fmt.Sprintf("%s: %d in page '%s'", w.label, w.n, r.Page))
		}
	}
	return warnings
}

// Converter turns matched rows into cleaned page content.
// It is safe for concurrent use.
type Converter struct {
	config Config
	footer cleaner.Cleaner
}

// New creates a converter.
func New(opts ...Option) (*Converter, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.Sanitize.NotagsSink = nil
	if err := cfg.Sanitize.Validate(); err != nil {
		return nil, err
	}

	var footer cleaner.Cleaner = cleaner.NewNoop()
	if !cfg.KeepFooter {
		footer = cleaner.NewFooterStripper(cfg.FooterHeadings...)
	}

	return &Converter{config: cfg, footer: footer}, nil
}

// Config returns the effective configuration.
func (c *Converter) Config() Config {
	return c.config
}

// Convert cleans the row selected by match. It never returns nil; failures
// are reported in Result.Error.
func (c *Converter) Convert(ctx context.Context, index int, match focus.Match) *Result {
	result := &Result{
		Index: index,
		Page:  match.Entry.Name,
		Label: match.Label,
		Row:   match.Row,
	}
	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}
	if match.Row == nil {
		result.Error = fmt.Errorf("%w: %s", ErrMissingPage, match.Entry.Name)
		return result
	}

	opts := c.config.Sanitize
	if c.config.CaptureNotags {
		opts.NotagsSink = func(text string) { result.Notags = text }
	}
	converted := sanitize.New(&opts).Convert(match.Row.Content)
	result.Sanitize = converted.Sanitize
	result.Filter = converted.Filter
	result.Structure = converted.Warnings

	content, err := c.footer.Clean(converted.Content)
	if err == nil && c.config.PostCleaner != nil {
		content, err = c.config.PostCleaner.Clean(content)
	}
	if err != nil {
		result.Error = fmt.Errorf("clean page %s: %w", match.Entry.Name, err)
		return result
	}
	result.Content = content

	logger.Debug("converted page",
		"page", result.Page,
		"id", match.Row.ID,
		"match", result.Label,
		"input_bytes", converted.InputBytes,
		"output_bytes", len(content))
	return result
}

// ConvertMany converts matches concurrently. Results arrive in completion
// order; Result.Index gives the input position. The channel is closed once
// every match has a result.
func (c *Converter) ConvertMany(ctx context.Context, matches []focus.Match, concurrency int) <-chan *Result {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make(chan *Result, len(matches))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, match := range matches {
		wg.Add(1)
		go func(i int, m focus.Match) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results <- &Result{Index: i, Page: m.Entry.Name, Label: m.Label, Row: m.Row, Error: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			results <- c.Convert(ctx, i, m)
		}(i, match)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// Collect drains ch into a slice ordered by Result.Index.
func Collect(ch <-chan *Result, n int) []*Result {
	ordered := make([]*Result, n)
	for r := range ch {
		if r.Index >= 0 && r.Index < n {
			ordered[r.Index] = r
		}
	}
	return ordered
}
