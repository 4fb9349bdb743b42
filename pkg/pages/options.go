package pages

import (
	"github.com/jmylchreest/pagetext/pkg/cleaner"
	"github.com/jmylchreest/pagetext/pkg/cleaner/sanitize"
)

// Config holds converter configuration.
type Config struct {
	// Sanitize configures the HTML conversion. Its NotagsSink is ignored;
	// use CaptureNotags instead.
	Sanitize sanitize.Options

	// KeepFooter leaves the shared site footer in place.
	KeepFooter bool
	// FooterHeadings overrides cleaner.DefaultFooterHeadings.
	FooterHeadings []string

	// CaptureNotags stores the tag-free intermediate text in Result.Notags.
	CaptureNotags bool

	// PostCleaner runs after the footer is handled. Nil skips it.
	PostCleaner cleaner.Cleaner
}

// DefaultConfig returns text output with the footer stripped.
func DefaultConfig() Config {
	return Config{
		Sanitize: *sanitize.DefaultOptions(),
	}
}

// Option configures a Converter.
type Option func(*Config)

// WithSanitizeOptions sets the HTML conversion options. Unset fields take
// their defaults.
func WithSanitizeOptions(opts sanitize.Options) Option {
	return func(c *Config) {
		opts.Merge(sanitize.DefaultOptions())
		c.Sanitize = opts
	}
}

// WithFooter keeps the site footer when keep is true.
func WithFooter(keep bool) Option {
	return func(c *Config) {
		c.KeepFooter = keep
	}
}

// WithFooterHeadings sets the line texts that start the footer.
func WithFooterHeadings(headings ...string) Option {
	return func(c *Config) {
		c.FooterHeadings = headings
	}
}

// WithNotags captures the tag-free intermediate text of every page.
func WithNotags(capture bool) Option {
	return func(c *Config) {
		c.CaptureNotags = capture
	}
}

// WithPostCleaner adds a cleaner that runs on the final content.
func WithPostCleaner(cl cleaner.Cleaner) Option {
	return func(c *Config) {
		c.PostCleaner = cl
	}
}
