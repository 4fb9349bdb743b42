package cleaner

// NoopCleaner passes content through without modification.
// Use this to write the stored fragment as-is, for example when comparing
// cleaner output against the raw input.
type NoopCleaner struct{}

// NewNoop creates a new no-op cleaner.
func NewNoop() *NoopCleaner {
	return &NoopCleaner{}
}

// Clean returns the input unchanged.
func (c *NoopCleaner) Clean(content string) (string, error) {
	return content, nil
}

// Name returns the cleaner type.
func (c *NoopCleaner) Name() string {
	return "noop"
}
