package sanitize

// Sanitizer converts CMS content fragments into text or Markdown.
// It implements cleaner.Cleaner. A Sanitizer holds no per-call state and
// may be used from several goroutines at once, as long as the NotagsSink
// it was built with is itself safe for that.
type Sanitizer struct {
	opts    Options
	blocked map[string]bool
}

// New creates a sanitizer. A nil opts uses DefaultOptions; unset format and
// delimiter fall back to the defaults. Options are assumed to have passed
// Validate.
func New(opts *Options) *Sanitizer {
	if opts == nil {
		opts = DefaultOptions()
	}
	o := *opts
	o.Merge(DefaultOptions())
	return &Sanitizer{
		opts:    o,
		blocked: o.blockedSet(),
	}
}

// Options returns a copy of the effective options.
func (s *Sanitizer) Options() Options {
	return s.opts
}

// Name returns the cleaner type.
func (s *Sanitizer) Name() string {
	return "sanitize-" + string(s.opts.Format)
}

// Clean converts html and discards the counters. It never fails.
func (s *Sanitizer) Clean(html string) (string, error) {
	return s.Convert(html).Content, nil
}

// Convert runs the full pipeline on fragment and returns the content with
// its counters and structure warnings.
func (s *Sanitizer) Convert(fragment string) *Result {
	result := &Result{
		InputBytes: len(fragment),
		Warnings:   StructureWarnings(fragment),
	}
	result.Content = s.convert(fragment, &result.Sanitize, &result.Filter)
	result.OutputBytes = len(result.Content)
	return result
}

// Convert is a shorthand for New(opts).Convert(fragment).
func Convert(fragment string, opts *Options) *Result {
	return New(opts).Convert(fragment)
}

func (s *Sanitizer) convert(fragment string, sc *SanitizeCounts, fc *FilterCounts) string {
	if fragment == "" {
		return ""
	}

	d := newDocument(DecodeEscapes(fragment), sc)
	d.removeBlocks()

	r := &linkRenderer{blocked: s.blocked, counts: sc}
	markdown := s.opts.Format == FormatMarkdown
	if markdown {
		convertMarkdown(d, r)
	} else {
		convertText(d, r, s.opts.TableDelim)
	}

	sc.TagsRemoved += d.stripTags()
	text := d.String()
	if s.opts.NotagsSink != nil {
		s.opts.NotagsSink(text)
	}

	text = DecodeEntities(text, sc)
	if !s.opts.Raw {
		text = Filter(text, s.opts.filterOptions(), fc)
	}

	if markdown {
		return NormalizeMarkdown(text)
	}
	return NormalizeLines(text, s.opts.TableDelim)
}
